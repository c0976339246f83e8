package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goimpute/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_SendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "data.csv", header.Filename)

		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(body))

		writeBody(w, models.UploadResponse{
			Status:   "success",
			FileInfo: models.FileInfo{Filename: "stored_data.csv", Rows: 1},
		})
	}))
	defer server.Close()

	info, err := NewClient(server.URL).Upload(context.Background(), "data.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "stored_data.csv", info.Filename)
	assert.Equal(t, 1, info.Rows)
}

func TestUpload_SurfacesServerErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, "Only CSV files are allowed")
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Upload(context.Background(), "data.csv", strings.NewReader("a\n"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Only CSV files are allowed", apiErr.Message)
}

func TestUpload_FallbackMessageOnUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway exploded</html>"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Upload(context.Background(), "data.csv", strings.NewReader("a\n"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Upload failed", apiErr.Message)
}

func TestProcess_FallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Process(context.Background(), "stored_data.csv")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Processing failed", apiErr.Message)
}

func TestProcess_DecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.ProcessRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "stored_data.csv", req.Filename)

		writeBody(w, map[string]interface{}{
			"status":             "success",
			"processed_filename": "processed_stored_data.csv",
			"stats":              models.Stats{TotalRows: 2},
			"preview_data":       []map[string]interface{}{{"a": 1.0}},
			"numeric_columns":    []string{"a"},
		})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Process(context.Background(), "stored_data.csv")
	require.NoError(t, err)
	assert.Equal(t, "processed_stored_data.csv", resp.ProcessedFilename)
	assert.Equal(t, 2, resp.Stats.TotalRows)
	require.Len(t, resp.PreviewData, 1)
}

func TestDownload_ReturnsAttachmentName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download/processed_stored_data.csv", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="imputed_data.csv"`)
		w.Write([]byte("a,b\n"))
	}))
	defer server.Close()

	body, name, err := NewClient(server.URL).Download(context.Background(), "processed_stored_data.csv")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "imputed_data.csv", name)
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))
}

func TestDownload_MissingDispositionYieldsEmptyName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a\n"))
	}))
	defer server.Close()

	body, name, err := NewClient(server.URL).Download(context.Background(), "processed_x.csv")
	require.NoError(t, err)
	body.Close()
	assert.Empty(t, name)
}

func TestCleanup_SendsBatchedFilenames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CleanupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"stored_data.csv", "processed_stored_data.csv"}, req.Filenames)
		writeBody(w, models.CleanupResponse{Status: "success", CleanedFiles: req.Filenames})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Cleanup(context.Background(), []string{"stored_data.csv", "processed_stored_data.csv"})
	require.NoError(t, err)
	assert.Len(t, resp.CleanedFiles, 2)
}

func TestClient_WrapsConnectionFailures(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Process(context.Background(), "stored_data.csv")
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, strings.HasPrefix(err.Error(), "Network error: "))
}
