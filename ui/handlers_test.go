package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goimpute/adapters/storage"
	"goimpute/app"
	"goimpute/internal/testkit"
	"goimpute/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	service := app.NewTransferService(store, nil, 50, 4)
	server, err := NewServer(service, 16<<20)
	require.NoError(t, err)
	return server, dir
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doUpload(t *testing.T, server *Server, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, server *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHandleUpload_StoresCSV(t *testing.T) {
	server, dir := newTestServer(t)

	rec := doUpload(t, server, "sales data.csv", testkit.SampleCSV().String())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "sales data.csv", resp.FileInfo.OriginalFilename)
	assert.Equal(t, 3, resp.FileInfo.Rows)
	assert.Equal(t, 3, resp.FileInfo.Columns)
	assert.Equal(t, []string{"name", "age", "score"}, resp.FileInfo.ColumnNames)
	assert.True(t, strings.HasSuffix(resp.FileInfo.Filename, "_sales_data.csv"))

	_, err := os.Stat(filepath.Join(dir, resp.FileInfo.Filename))
	assert.NoError(t, err)
}

func TestHandleUpload_RejectsNonCSV(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doUpload(t, server, "data.txt", "a,b\n1,2\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only CSV files are allowed", decodeError(t, rec))
}

func TestHandleUpload_NoFile(t *testing.T) {
	server, _ := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", decodeError(t, rec))
}

func TestHandleUpload_InvalidCSVRemovedFromDisk(t *testing.T) {
	server, dir := newTestServer(t)

	rec := doUpload(t, server, "broken.csv", "a,\"b\nunterminated")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleProcess_FullFlow(t *testing.T) {
	server, dir := newTestServer(t)

	rec := doUpload(t, server, "data.csv", testkit.SampleCSV().String())
	require.Equal(t, http.StatusOK, rec.Code)
	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = doJSON(t, server, http.MethodPost, "/api/process",
		models.ProcessRequest{Filename: uploaded.FileInfo.Filename})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "File processed successfully", resp.Message)
	assert.Equal(t, "processed_"+uploaded.FileInfo.Filename, resp.ProcessedFilename)
	assert.ElementsMatch(t, []string{"age", "score"}, resp.NumericColumns)
	assert.Equal(t, 1, resp.Stats.TotalImputations)

	require.Len(t, resp.PreviewData, 3)
	assert.Equal(t, 35.0, resp.PreviewData[1].Get("age"))
	require.Len(t, resp.ImputationFlags["age"], 3)
	assert.True(t, resp.ImputationFlags["age"][1])

	_, err := os.Stat(filepath.Join(dir, resp.ProcessedFilename))
	assert.NoError(t, err)
}

func TestHandleProcess_MissingFilename(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/process", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Filename not provided", decodeError(t, rec))
}

func TestHandleProcess_UnknownFile(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/process",
		models.ProcessRequest{Filename: "missing_data.csv"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleProcess_NoNumericColumns(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doUpload(t, server, "names.csv", "name,city\nalice,berlin\nbob,\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = doJSON(t, server, http.MethodPost, "/api/process",
		models.ProcessRequest{Filename: uploaded.FileInfo.Filename})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No numeric columns found for imputation", decodeError(t, rec))
}

func TestHandleDownload_AttachmentName(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doUpload(t, server, "data.csv", testkit.SampleCSV().String())
	require.Equal(t, http.StatusOK, rec.Code)
	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = doJSON(t, server, http.MethodPost, "/api/process",
		models.ProcessRequest{Filename: uploaded.FileInfo.Filename})
	require.Equal(t, http.StatusOK, rec.Code)
	var processed models.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &processed))

	req := httptest.NewRequest(http.MethodGet, "/api/download/"+processed.ProcessedFilename, nil)
	dl := httptest.NewRecorder()
	server.Router().ServeHTTP(dl, req)

	require.Equal(t, http.StatusOK, dl.Code)
	assert.Contains(t, dl.Header().Get("Content-Disposition"), `filename="imputed_data.csv"`)
	assert.Contains(t, dl.Body.String(), "35")
}

func TestHandleDownload_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/download/processed_missing_data.csv", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCleanup_RemovesFiles(t *testing.T) {
	server, dir := newTestServer(t)

	rec := doUpload(t, server, "data.csv", testkit.SampleCSV().String())
	require.Equal(t, http.StatusOK, rec.Code)
	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = doJSON(t, server, http.MethodPost, "/api/cleanup",
		models.CleanupRequest{Filenames: []string{uploaded.FileInfo.Filename, "not_there.csv"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CleanupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{uploaded.FileInfo.Filename}, resp.CleanedFiles)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "/api/upload", resp.Endpoints["upload"])
}
