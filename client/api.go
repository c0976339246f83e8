// Package client drives the CSV imputation API: upload, process, download
// and cleanup, plus the session controller that sequences them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"goimpute/models"
)

// APIError is a non-2xx response whose JSON error body was surfaced. The
// message is shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError is a request that could not be completed at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "Network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is a thin wrapper over the four API endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL, e.g.
// "http://localhost:5000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client,
// mostly for tests.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Upload sends a CSV as a multipart form and returns the stored file info.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*models.FileInfo, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp, "Upload failed")
	}

	var body models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "Upload failed"}
	}
	return &body.FileInfo, nil
}

// Process asks the server to impute a previously uploaded file.
func (c *Client) Process(ctx context.Context, filename string) (*models.ProcessResponse, error) {
	payload, err := json.Marshal(models.ProcessRequest{Filename: filename})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp, "Processing failed")
	}

	var body models.ProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "Processing failed"}
	}
	return &body, nil
}

// Download fetches a processed file. The caller must close the returned
// reader. The second value is the attachment name the server suggested.
func (c *Client) Download(ctx context.Context, processedFilename string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/download/"+processedFilename, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, "", decodeAPIError(resp, "Download failed")
	}

	return resp.Body, attachmentName(resp.Header.Get("Content-Disposition")), nil
}

// Cleanup asks the server to delete the named files in one batched call.
func (c *Client) Cleanup(ctx context.Context, filenames []string) (*models.CleanupResponse, error) {
	payload, err := json.Marshal(models.CleanupRequest{Filenames: filenames})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cleanup", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp, "Cleanup failed")
	}

	var body models.CleanupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "Cleanup failed"}
	}
	return &body, nil
}

// decodeAPIError extracts the JSON error body, falling back to a generic
// message when the body does not match the contract.
func decodeAPIError(resp *http.Response, fallback string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// attachmentName pulls the filename out of a Content-Disposition header.
func attachmentName(disposition string) string {
	const marker = "filename="
	idx := strings.Index(disposition, marker)
	if idx < 0 {
		return ""
	}
	name := disposition[idx+len(marker):]
	name = strings.Trim(name, `"`)
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = strings.Trim(name[:semi], `"`)
	}
	return name
}
