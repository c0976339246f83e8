package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Action identifies one of the controller's user-triggered operations.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionProcess  Action = "process"
	ActionDownload Action = "download"
	ActionCleanup  Action = "cleanup"
)

// Status is the lifecycle state of an action.
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
)

// Controller-level validation errors. These never reach the network.
var (
	ErrNotCSV          = errors.New("Only CSV files are allowed")
	ErrNoFileUploaded  = errors.New("Please upload a file first")
	ErrNoProcessedFile = errors.New("No processed file available")
	ErrActionInFlight  = errors.New("Another action is still in progress")
)

// Session is the controller's per-session state: the uploaded file's info
// and the processed filename, both nil/empty until the corresponding call
// succeeds.
type Session struct {
	FileInfo          *FileInfoState
	ProcessedFilename string
}

// FileInfoState is the session's copy of the upload response metadata.
type FileInfoState struct {
	Filename         string
	OriginalFilename string
	Rows             int
	Columns          int
	FileSize         int64
}

// UploadController sequences the upload → process → download → cleanup
// cycle against the API. One instance owns one session; it is safe for
// concurrent use, but overlapping actions are rejected rather than queued.
type UploadController struct {
	api  *Client
	view View

	mu      sync.Mutex
	session Session
	status  map[Action]Status
}

// NewUploadController creates a controller rendering into view.
func NewUploadController(api *Client, view View) *UploadController {
	return &UploadController{
		api:  api,
		view: view,
		status: map[Action]Status{
			ActionUpload:   StatusIdle,
			ActionProcess:  StatusIdle,
			ActionDownload: StatusIdle,
			ActionCleanup:  StatusIdle,
		},
	}
}

// Session returns a copy of the current session state.
func (uc *UploadController) Session() Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.session
	if s.FileInfo != nil {
		info := *s.FileInfo
		s.FileInfo = &info
	}
	return s
}

// ActionStatus reports the lifecycle state of an action.
func (uc *UploadController) ActionStatus(action Action) Status {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.status[action]
}

// begin marks an action in flight, refusing if any action already is.
func (uc *UploadController) begin(action Action) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, st := range uc.status {
		if st == StatusInFlight {
			return ErrActionInFlight
		}
	}
	uc.status[action] = StatusInFlight
	return nil
}

func (uc *UploadController) finish(action Action) {
	uc.mu.Lock()
	uc.status[action] = StatusIdle
	uc.mu.Unlock()
}

// UploadFile validates and uploads a local CSV. A filename that does not
// end in .csv fails locally without touching the network. On success the
// session holds the returned file info and processing is enabled; on
// failure any previous file info is cleared.
func (uc *UploadController) UploadFile(ctx context.Context, path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		uc.view.ShowMessage(LevelError, ErrNotCSV.Error())
		return ErrNotCSV
	}

	if err := uc.begin(ActionUpload); err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return err
	}
	defer uc.finish(ActionUpload)

	file, err := os.Open(path)
	if err != nil {
		uc.view.ShowMessage(LevelError, fmt.Sprintf("Failed to read file: %v", err))
		return err
	}
	defer file.Close()

	uc.view.SetLoading(true)
	info, err := uc.api.Upload(ctx, filepath.Base(path), file)
	uc.view.SetLoading(false)

	if err != nil {
		uc.mu.Lock()
		uc.session.FileInfo = nil
		uc.session.ProcessedFilename = ""
		uc.mu.Unlock()
		uc.view.SetProcessEnabled(false)
		uc.view.ShowMessage(LevelError, err.Error())
		return err
	}

	state := &FileInfoState{
		Filename:         info.Filename,
		OriginalFilename: info.OriginalFilename,
		Rows:             info.Rows,
		Columns:          info.Columns,
		FileSize:         info.FileSize,
	}
	uc.mu.Lock()
	uc.session.FileInfo = state
	uc.session.ProcessedFilename = ""
	uc.mu.Unlock()

	uc.view.ShowFileInfo(*info)
	uc.view.SetProcessEnabled(true)
	uc.view.ShowMessage(LevelSuccess, "File uploaded successfully")
	return nil
}

// ProcessFile triggers server-side imputation of the uploaded file. It
// requires a prior successful upload and renders the stats summary plus the
// preview table on success.
func (uc *UploadController) ProcessFile(ctx context.Context) error {
	uc.mu.Lock()
	info := uc.session.FileInfo
	uc.mu.Unlock()
	if info == nil {
		uc.view.ShowMessage(LevelError, ErrNoFileUploaded.Error())
		return ErrNoFileUploaded
	}

	if err := uc.begin(ActionProcess); err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return err
	}
	defer uc.finish(ActionProcess)

	uc.view.SetLoading(true)
	resp, err := uc.api.Process(ctx, info.Filename)
	uc.view.SetLoading(false)

	if err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return err
	}

	uc.mu.Lock()
	uc.session.ProcessedFilename = resp.ProcessedFilename
	uc.mu.Unlock()

	uc.view.ShowStats(resp.Stats)
	uc.view.ShowPreview(RenderPreviewTable(resp.PreviewData, resp.ImputationFlags, resp.NumericColumns))
	uc.view.ShowMessage(LevelSuccess, "File processed successfully")
	return nil
}

// DownloadProcessed fetches the processed file and writes it into dir as
// imputed_<original filename>. It requires a prior successful process call.
// The file lands via a temp file so a failed download leaves nothing behind.
func (uc *UploadController) DownloadProcessed(ctx context.Context, dir string) (string, error) {
	uc.mu.Lock()
	processed := uc.session.ProcessedFilename
	info := uc.session.FileInfo
	uc.mu.Unlock()
	if processed == "" {
		uc.view.ShowMessage(LevelError, ErrNoProcessedFile.Error())
		return "", ErrNoProcessedFile
	}

	if err := uc.begin(ActionDownload); err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return "", err
	}
	defer uc.finish(ActionDownload)

	uc.view.SetLoading(true)
	content, serverName, err := uc.api.Download(ctx, processed)
	uc.view.SetLoading(false)

	if err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return "", err
	}
	defer content.Close()

	name := downloadFilename(info, serverName, processed)
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".imputed-*.tmp")
	if err != nil {
		uc.view.ShowMessage(LevelError, fmt.Sprintf("Failed to save download: %v", err))
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.ReadFrom(content); err != nil {
		tmp.Close()
		uc.view.ShowMessage(LevelError, fmt.Sprintf("Failed to save download: %v", err))
		return "", err
	}
	if err := tmp.Close(); err != nil {
		uc.view.ShowMessage(LevelError, fmt.Sprintf("Failed to save download: %v", err))
		return "", err
	}
	if err := os.Rename(tmpName, target); err != nil {
		uc.view.ShowMessage(LevelError, fmt.Sprintf("Failed to save download: %v", err))
		return "", err
	}

	uc.view.ShowMessage(LevelSuccess, fmt.Sprintf("Saved %s", target))
	return target, nil
}

// CleanupFiles deletes the session's files server-side in one batched call
// and resets the session. With no uploaded file it is a no-op. On failure
// the session is left untouched.
func (uc *UploadController) CleanupFiles(ctx context.Context) error {
	uc.mu.Lock()
	info := uc.session.FileInfo
	processed := uc.session.ProcessedFilename
	uc.mu.Unlock()
	if info == nil {
		return nil
	}

	if err := uc.begin(ActionCleanup); err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return err
	}
	defer uc.finish(ActionCleanup)

	filenames := []string{info.Filename}
	if processed != "" {
		filenames = append(filenames, processed)
	}

	uc.view.SetLoading(true)
	_, err := uc.api.Cleanup(ctx, filenames)
	uc.view.SetLoading(false)

	if err != nil {
		uc.view.ShowMessage(LevelError, err.Error())
		return err
	}

	uc.mu.Lock()
	uc.session = Session{}
	uc.mu.Unlock()

	uc.view.Reset()
	uc.view.ShowMessage(LevelSuccess, "Session reset")
	return nil
}

// downloadFilename picks the local name for a downloaded file: the
// client-synthesized imputed_<original>, then the server's suggestion, then
// a name derived from the processed filename.
func downloadFilename(info *FileInfoState, serverName, processed string) string {
	if info != nil && info.OriginalFilename != "" {
		return "imputed_" + filepath.Base(info.OriginalFilename)
	}
	if serverName != "" {
		return filepath.Base(serverName)
	}
	return "imputed_" + filepath.Base(processed)
}
