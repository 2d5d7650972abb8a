// Package askpool fans question rows out to chatbots on a bounded worker
// pool. Requests to the same chatbot are serialized and rate limited so no
// vendor sees concurrent traffic from a run.
package askpool

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/askmetwice/amt/internal/chatbots"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/models"
	"github.com/askmetwice/amt/internal/storage"
)

// Request is one question row to fan out across all chatbots.
type Request struct {
	Item     models.Item
	Question string
}

// UploadFunc mirrors a saved response file to remote storage and returns
// its URL. Used by the fact-check pipeline for Drive uploads.
type UploadFunc func(ctx context.Context, path string) (string, error)

// Pool executes (request, chatbot) pairs with bounded concurrency.
type Pool struct {
	bots     []string
	clients  map[string]chatbots.Client
	saver    *storage.Saver
	workers  int
	locks    map[string]*sync.Mutex
	limiters map[string]*rate.Limiter
	upload   UploadFunc
	log      *logger.Logger
}

// New builds a pool over the given chatbot order. botInterval is the
// minimum spacing between requests to one chatbot; upload may be nil.
func New(bots []string, clients map[string]chatbots.Client, saver *storage.Saver, workers int, botInterval time.Duration, upload UploadFunc) *Pool {
	if workers < 1 {
		workers = 1
	}

	locks := make(map[string]*sync.Mutex, len(bots))
	limiters := make(map[string]*rate.Limiter, len(bots))
	for _, bot := range bots {
		locks[bot] = &sync.Mutex{}
		limit := rate.Inf
		if botInterval > 0 {
			limit = rate.Every(botInterval)
		}
		limiters[bot] = rate.NewLimiter(limit, 1)
	}

	return &Pool{
		bots:     bots,
		clients:  clients,
		saver:    saver,
		workers:  workers,
		locks:    locks,
		limiters: limiters,
		upload:   upload,
		log:      logger.L(),
	}
}

type task struct {
	index   int
	request Request
	bot     string
}

// Run asks every request of every chatbot and returns one result row per
// (request, chatbot) pair, in request-major order. A failed pair yields an
// error row; the rest of the batch continues.
func (p *Pool) Run(ctx context.Context, requests []Request) []models.ResultRow {
	tasks := make([]task, 0, len(requests)*len(p.bots))
	for _, request := range requests {
		for _, bot := range p.bots {
			tasks = append(tasks, task{index: len(tasks), request: request, bot: bot})
		}
	}

	results := make([]models.ResultRow, len(tasks))
	queue := make(chan task)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				results[t.index] = p.execute(ctx, t)
			}
		}()
	}

	for _, t := range tasks {
		select {
		case queue <- t:
		case <-ctx.Done():
			// mark the rest as errors and stop feeding
			results[t.index] = errorRow(t, ctx.Err().Error())
			continue
		}
	}
	close(queue)
	wg.Wait()

	return results
}

func (p *Pool) execute(ctx context.Context, t task) models.ResultRow {
	client, ok := p.clients[t.bot]
	if !ok {
		return errorRow(t, "no client registered")
	}

	// one request per vendor at a time, spaced by the limiter
	lock := p.locks[t.bot]
	lock.Lock()
	if err := p.limiters[t.bot].Wait(ctx); err != nil {
		lock.Unlock()
		p.log.Warning("rate wait for %s: %v", t.bot, err)
		return errorRow(t, err.Error())
	}
	resp, err := client.Ask(ctx, t.request.Question)
	lock.Unlock()

	if err != nil {
		p.log.Warning("ask %s failed: %v", t.bot, err)
		return errorRow(t, err.Error())
	}

	path, err := p.saver.Save(resp)
	if err != nil {
		p.log.Error("save response from %s: %v", t.bot, err)
		return errorRow(t, err.Error())
	}

	location := path
	if p.upload != nil {
		url, err := p.upload(ctx, path)
		if err != nil || url == "" {
			p.log.Warning("upload %s: %v", path, err)
			location = "error creating url"
		} else {
			location = url
		}
	}

	return models.ResultRow{
		Item:     t.request.Item,
		Question: t.request.Question,
		Client:   resp.Model,
		Location: location,
	}
}

func errorRow(t task, _ string) models.ResultRow {
	return models.ResultRow{
		Item:     t.request.Item,
		Question: t.request.Question,
		Client:   models.ErrClient(t.bot),
		Location: models.ErrLocation,
	}
}
