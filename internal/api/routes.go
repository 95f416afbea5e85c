package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"seo_content_automation_backend/internal/auth"
	"seo_content_automation_backend/internal/citation"
	"seo_content_automation_backend/internal/models"
	"seo_content_automation_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

func SetupRoutes(
	r *gin.Engine,
	workflowService *services.WorkflowService,
	cacheService services.ResearchCacheManager,
	sourceLoader *services.SourceLoader,
	userService *services.UserService,
) {
	api := r.Group("/api")
	{
		api.POST("/articles/generate", auth.AuthMiddleware(userService), generateArticleHandler(workflowService))
		api.POST("/articles/draft-stream", auth.AuthMiddleware(userService), streamDraftHandler(workflowService))
		api.GET("/articles", auth.AuthMiddleware(userService), listArticlesHandler(workflowService))
		api.GET("/articles/:id", auth.AuthMiddleware(userService), getArticleHandler(workflowService))
		api.GET("/articles/:id/html", auth.AuthMiddleware(userService), getArticleHTMLHandler(workflowService))
		api.GET("/articles/:id/pdf", auth.AuthMiddleware(userService), getArticlePDFHandler(workflowService))
		api.GET("/articles/:id/seo", auth.AuthMiddleware(userService), validateArticleSEOHandler(workflowService))
		api.GET("/jobs", auth.AuthMiddleware(userService), listJobsHandler(workflowService))
		api.GET("/jobs/:job_id", auth.AuthMiddleware(userService), getJobHandler(workflowService))
		api.POST("/research", auth.AuthMiddleware(userService), researchHandler(workflowService, sourceLoader))
		api.GET("/research/cache/stats", auth.AuthMiddleware(userService), cacheStatsHandler(cacheService))
		api.POST("/research/cache/purge", auth.AuthMiddleware(userService), cachePurgeHandler(cacheService))
	}
}

func researchHandler(workflowService *services.WorkflowService, sourceLoader *services.SourceLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := c.PostForm("keyword")
		if keyword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
			return
		}
		bypassCache := c.PostForm("bypass_cache") == "true"

		var extraSources []models.AcademicSource

		// Optional user-supplied bibliography.
		if bib := c.PostForm("bibtex"); bib != "" {
			sources, err := citation.ParseBibTeX(bib)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid BibTeX: %v", err)})
				return
			}
			extraSources = append(extraSources, sources...)
		}

		// Optional user-supplied PDFs.
		form, err := c.MultipartForm()
		if err == nil {
			files := form.File["pdfs"]
			if len(files) > 0 {
				tempDir, err := os.MkdirTemp("", "user_pdfs_")
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temporary directory"})
					return
				}
				defer os.RemoveAll(tempDir)

				for _, fileHeader := range files {
					filename := filepath.Join(tempDir, filepath.Base(fileHeader.Filename))
					if err := c.SaveUploadedFile(fileHeader, filename); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save file %s: %v", fileHeader.Filename, err)})
						return
					}
					source, _, err := sourceLoader.LoadUserPDF(filename, fileHeader.Filename)
					if err != nil {
						c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					extraSources = append(extraSources, *source)
				}
			}
		}

		record, cacheHit, err := workflowService.ResearchKeyword(c.Request.Context(), keyword, extraSources, bypassCache)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"keyword":        record.Keyword,
			"summary":        record.Summary,
			"main_findings":  record.MainFindings,
			"key_statistics": record.KeyStatistics,
			"source_count":   record.SourceCount,
			"sources":        record.Sources,
			"cache_hit":      cacheHit,
		})
	}
}

func streamDraftHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Keyword string `json:"keyword" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		responseIterator, err := workflowService.StreamDraft(c.Request.Context(), request.Keyword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Stream the draft back to the client as it is generated
		c.Stream(func(w io.Writer) bool {
			response, err := responseIterator.Next()
			if err == iterator.Done {
				c.SSEvent("done", "")
				return false
			}
			if err != nil {
				c.SSEvent("error", err.Error())
				return false
			}

			if len(response.Candidates) > 0 && response.Candidates[0].Content != nil {
				for _, part := range response.Candidates[0].Content.Parts {
					if text, ok := part.(genai.Text); ok {
						c.SSEvent("draft", string(text))
					}
				}
			}
			return true
		})
	}
}

func cacheStatsHandler(cacheService services.ResearchCacheManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := cacheService.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to get cache stats: %v", err)})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func cachePurgeHandler(cacheService services.ResearchCacheManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		purged, err := cacheService.PurgeExpired(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to purge cache: %v", err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"purged": purged})
	}
}
