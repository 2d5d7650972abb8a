package sheets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	drive "google.golang.org/api/drive/v3"
)

// UploadFile uploads a local file into a Drive folder and returns its
// webViewLink, so spreadsheets can point at the hosted copy.
func (s *Service) UploadFile(ctx context.Context, folderID, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	created, err := s.drive.Files.Create(&drive.File{
		Name:    filepath.Base(path),
		Parents: []string{folderID},
	}).Media(file).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}

	return created.WebViewLink, nil
}

// CreateFolder creates a subfolder under parentID and returns its ID.
// Response files for a run are grouped under a date-named folder.
func (s *Service) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	created, err := s.drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	return created.Id, nil
}
