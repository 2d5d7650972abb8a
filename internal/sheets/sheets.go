package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/table"
)

// Service wraps the Sheets and Drive APIs used by the pipelines.
type Service struct {
	sheets *sheetsapi.Service
	drive  *drive.Service
	log    *logger.Logger
}

// NewService builds a Service from an authenticated token source.
func NewService(ctx context.Context, source oauth2.TokenSource) (*Service, error) {
	sheetsService, err := sheetsapi.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &Service{sheets: sheetsService, drive: driveService, log: logger.L()}, nil
}

// SpreadsheetURL builds the browser URL for a spreadsheet ID.
func SpreadsheetURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/", id)
}

// CreateSpreadsheet creates a spreadsheet inside a Drive folder and returns
// its ID. With publicAccess the sheet gets an anyone-with-link reader
// permission. A non-empty tabName replaces the default "Sheet1" tab.
func (s *Service) CreateSpreadsheet(ctx context.Context, name, folderID string, publicAccess bool, tabName string) (string, error) {
	file, err := s.drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.spreadsheet",
		Parents:  []string{folderID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}
	s.log.Info("created spreadsheet %q at %s", name, SpreadsheetURL(file.Id))

	if publicAccess {
		_, err = s.drive.Permissions.Create(file.Id, &drive.Permission{
			Type: "anyone",
			Role: "reader",
		}).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("make spreadsheet public: %w", err)
		}
	}

	if tabName != "" {
		if err := s.addTab(ctx, file.Id, tabName); err != nil {
			return "", err
		}
		if err := s.deleteTab(ctx, file.Id, "Sheet1"); err != nil {
			return "", err
		}
	}

	return file.Id, nil
}

// WriteTable writes a table into a tab starting at A1, creating the tab
// when it does not exist yet.
func (s *Service) WriteTable(ctx context.Context, sheetID, tabName string, tbl *table.Table) error {
	if err := s.addTab(ctx, sheetID, tabName); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return err
		}
	}

	_, err := s.sheets.Spreadsheets.Values.Update(sheetID, tabName+"!A1", &sheetsapi.ValueRange{
		Values: tbl.SheetValues(),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write tab %q: %w", tabName, err)
	}

	s.log.Info("wrote %d rows to tab %q", tbl.Len(), tabName)
	return nil
}

// AppendRow appends one row to the bottom of a tab. The master sheet grows
// by one row per pipeline run.
func (s *Service) AppendRow(ctx context.Context, sheetID, tabName string, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := s.sheets.Spreadsheets.Values.Append(sheetID, tabName+"!A1", &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %q: %w", tabName, err)
	}
	return nil
}

// FormatTab applies the shared header styling to a tab: bold first row,
// frozen first row. Exact per-dataset styling is deliberately not carried.
func (s *Service) FormatTab(ctx context.Context, sheetID, tabName string) error {
	tabID, err := s.tabID(ctx, sheetID, tabName)
	if err != nil {
		return err
	}

	_, err = s.sheets.Spreadsheets.BatchUpdate(sheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				RepeatCell: &sheetsapi.RepeatCellRequest{
					Range: &sheetsapi.GridRange{
						SheetId:       tabID,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheetsapi.CellData{
						UserEnteredFormat: &sheetsapi.CellFormat{
							TextFormat: &sheetsapi.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat.bold",
				},
			},
			{
				UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
					Properties: &sheetsapi.SheetProperties{
						SheetId: tabID,
						GridProperties: &sheetsapi.GridProperties{
							FrozenRowCount: 1,
						},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("format tab %q: %w", tabName, err)
	}
	return nil
}

func (s *Service) addTab(ctx context.Context, sheetID, tabName string) error {
	_, err := s.sheets.Spreadsheets.BatchUpdate(sheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: tabName},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add tab %q: %w", tabName, err)
	}
	return nil
}

func (s *Service) deleteTab(ctx context.Context, sheetID, tabName string) error {
	tabID, err := s.tabID(ctx, sheetID, tabName)
	if err != nil {
		return err
	}

	_, err = s.sheets.Spreadsheets.BatchUpdate(sheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: tabID},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete tab %q: %w", tabName, err)
	}
	return nil
}

func (s *Service) tabID(ctx context.Context, sheetID, tabName string) (int64, error) {
	spreadsheet, err := s.sheets.Spreadsheets.Get(sheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == tabName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("tab %q not found", tabName)
}
