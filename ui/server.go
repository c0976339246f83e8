package ui

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"goimpute/app"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html docs/*.md
var embeddedFiles embed.FS

// Server is the gin web server: the HTML landing page plus the /api
// transfer endpoints.
type Server struct {
	router         *gin.Engine
	service        *app.TransferService
	templates      *template.Template
	maxUploadBytes int64
}

// NewServer creates and wires the web server.
func NewServer(service *app.TransferService, maxUploadBytes int64) (*Server, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:         gin.Default(),
		service:        service,
		templates:      templates,
		maxUploadBytes: maxUploadBytes,
	}
	s.router.MaxMultipartMemory = maxUploadBytes
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/docs", s.handleDocs)

	api := s.router.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.POST("/process", s.handleProcess)
	api.GET("/download/:filename", s.handleDownload)
	api.POST("/cleanup", s.handleCleanup)
}

// Router exposes the underlying handler, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server on the given address.
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}
