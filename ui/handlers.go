package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"

	"goimpute/internal/errors"
	"goimpute/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, "index.html", nil); err != nil {
		log.Printf("[Server] Template error: %v", err)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "success",
		Message: "CSV Imputation API is running",
		Endpoints: map[string]string{
			"upload":   "/api/upload",
			"process":  "/api/process",
			"download": "/api/download/<filename>",
			"cleanup":  "/api/cleanup",
		},
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxUploadBytes>>20),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	info, err := s.service.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		writeGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Status:   "success",
		Message:  "File uploaded successfully",
		FileInfo: *info,
	})
}

func (s *Server) handleProcess(c *gin.Context) {
	var req models.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename not provided"})
		return
	}

	resp, err := s.service.Process(c.Request.Context(), req.Filename)
	if err != nil {
		writeGinError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDownload(c *gin.Context) {
	filename := c.Param("filename")

	if c.Query("format") == "xlsx" {
		s.handleDownloadXLSX(c, filename)
		return
	}

	download, err := s.service.OpenDownload(c.Request.Context(), filename)
	if err != nil {
		writeGinError(c, err)
		return
	}
	defer download.Content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Name))
	c.DataFromReader(http.StatusOK, download.Size, download.MimeType, download.Content, nil)
}

func (s *Server) handleDownloadXLSX(c *gin.Context, filename string) {
	// The workbook is rebuilt per request; buffer it so errors can still
	// produce a JSON body instead of a half-written attachment.
	var buf bytes.Buffer
	name, err := s.service.ExportXLSX(c.Request.Context(), filename, &buf)
	if err != nil {
		writeGinError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) handleCleanup(c *gin.Context) {
	var req models.CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filenames not provided"})
		return
	}

	cleaned, err := s.service.Cleanup(c.Request.Context(), req.Filenames)
	if err != nil {
		writeGinError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CleanupResponse{
		Status:       "success",
		Message:      fmt.Sprintf("Cleaned up %d files", len(cleaned)),
		CleanedFiles: cleaned,
	})
}

// writeGinError maps an application error onto the JSON error contract.
func writeGinError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("[Server] Internal error: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusForError translates internal error codes into HTTP statuses.
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeInvalidCSV, errors.CodeNoNumericData:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
