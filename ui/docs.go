package ui

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// handleDocs renders the embedded API reference as HTML.
func (s *Server) handleDocs(c *gin.Context) {
	source, err := embeddedFiles.ReadFile("docs/API.md")
	if err != nil {
		log.Printf("[Server] Failed to read API docs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Documentation unavailable"})
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML(source, p, renderer)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, "docs.html", map[string]interface{}{
		"Body": template.HTML(body),
	}); err != nil {
		log.Printf("[Server] Template error: %v", err)
	}
}
