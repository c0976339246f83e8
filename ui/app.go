package ui

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goimpute/app"
	"goimpute/models"
)

// App is the headless variant of the server: the same /api endpoints on a
// chi router, without the HTML page. Used by cmd/api for deployments where
// another frontend talks to the service.
type App struct {
	router         *chi.Mux
	service        *app.TransferService
	maxUploadBytes int64
}

// NewApp creates the headless API application.
func NewApp(service *app.TransferService, maxUploadBytes int64) *App {
	a := &App{
		router:         chi.NewRouter(),
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Route("/api", func(r chi.Router) {
		r.Post("/upload", a.handleUpload)
		r.Post("/process", a.handleProcess)
		r.Get("/download/{filename}", a.handleDownload)
		r.Post("/cleanup", a.handleCleanup)
	})
}

// Handler exposes the router.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start runs the API server on the given address.
func (a *App) Start(addr string) error {
	log.Printf("[API] Listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "success",
		Message: "CSV Imputation API is running",
	})
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			writeAPIError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size is %dMB.", a.maxUploadBytes>>20))
			return
		}
		writeAPIError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	info, err := a.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Status:   "success",
		Message:  "File uploaded successfully",
		FileInfo: *info,
	})
}

func (a *App) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeAPIError(w, http.StatusBadRequest, "Filename not provided")
		return
	}

	resp, err := a.service.Process(r.Context(), req.Filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	download, err := a.service.OpenDownload(r.Context(), filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer download.Content.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Name))
	w.Header().Set("Content-Type", download.MimeType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", download.Size))
	if _, err := io.Copy(w, download.Content); err != nil {
		log.Printf("[API] Download stream interrupted: %v", err)
	}
}

func (a *App) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req models.CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "Filenames not provided")
		return
	}

	cleaned, err := a.service.Cleanup(r.Context(), req.Filenames)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.CleanupResponse{
		Status:       "success",
		Message:      fmt.Sprintf("Cleaned up %d files", len(cleaned)),
		CleanedFiles: cleaned,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
	}
	writeAPIError(w, status, err.Error())
}
