package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "seo_content_automation_backend/internal/errors"
	"seo_content_automation_backend/internal/models"
	"seo_content_automation_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func generateArticleHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Keyword string `json:"keyword" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error(err.Error()))
			return
		}

		userModel, ok := currentUser(c)
		if !ok {
			return
		}

		jobID, err := workflowService.StartGeneration(c.Request.Context(), userModel, request.Keyword)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
	}
}

func getJobHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := workflowService.GetJob(c.Param("job_id"))
		if err != nil {
			apperrors.HandleError(c, apperrors.New404Error("Job not found"))
			return
		}

		userModel, ok := currentUser(c)
		if !ok {
			return
		}
		if job.UserID != userModel.ID {
			apperrors.HandleError(c, apperrors.New403Error())
			return
		}

		c.JSON(http.StatusOK, jobJSON(job))
	}
}

func listJobsHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userModel, ok := currentUser(c)
		if !ok {
			return
		}

		jobs, err := workflowService.GetUserJobs(userModel.ID)
		if err != nil {
			apperrors.HandleError(c, fmt.Errorf("failed to retrieve jobs: %w", err))
			return
		}

		var out []gin.H
		for i := range jobs {
			out = append(out, jobJSON(&jobs[i]))
		}
		c.JSON(http.StatusOK, gin.H{"jobs": out})
	}
}

func listArticlesHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userModel, ok := currentUser(c)
		if !ok {
			return
		}

		articles, err := workflowService.GetUserArticles(userModel.ID)
		if err != nil {
			apperrors.HandleError(c, fmt.Errorf("failed to retrieve articles: %w", err))
			return
		}

		var out []gin.H
		for _, a := range articles {
			out = append(out, gin.H{
				"id":               a.ID,
				"keyword":          a.Keyword,
				"title":            a.Title,
				"slug":             a.Slug,
				"meta_description": a.MetaDescription,
				"word_count":       a.WordCount,
				"status":           a.Status,
				"published_url":    a.PublishedURL,
				"created_at":       a.CreatedAt.Format(time.RFC3339),
			})
		}
		c.JSON(http.StatusOK, gin.H{"articles": out})
	}
}

func getArticleHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		article, ok := loadArticle(c, workflowService)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, article)
	}
}

func getArticleHTMLHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		article, ok := loadArticle(c, workflowService)
		if !ok {
			return
		}

		html, err := workflowService.RenderArticleHTML(article.ID)
		if err != nil {
			apperrors.HandleError(c, fmt.Errorf("failed to render article: %w", err))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}

func getArticlePDFHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		article, ok := loadArticle(c, workflowService)
		if !ok {
			return
		}

		pdfBytes, err := workflowService.ExportArticlePDF(article.ID)
		if err != nil {
			apperrors.HandleError(c, fmt.Errorf("failed to export PDF: %w", err))
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", article.Slug))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

func validateArticleSEOHandler(workflowService *services.WorkflowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		article, ok := loadArticle(c, workflowService)
		if !ok {
			return
		}

		violations, err := workflowService.ValidateArticleSEO(article.ID)
		if err != nil {
			apperrors.HandleError(c, fmt.Errorf("failed to validate article: %w", err))
			return
		}
		if len(violations) > 0 {
			apperrors.HandleError(c, apperrors.New422Error(violations))
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		apperrors.HandleError(c, apperrors.New401Error())
		return nil, false
	}
	userModel, ok := user.(*models.User)
	if !ok {
		apperrors.HandleError(c, fmt.Errorf("failed to cast user to *models.User"))
		return nil, false
	}
	return userModel, true
}

func loadArticle(c *gin.Context, workflowService *services.WorkflowService) (*models.Article, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.HandleError(c, apperrors.New400Error("Invalid article id"))
		return nil, false
	}

	article, err := workflowService.GetArticle(uint(id))
	if err != nil {
		apperrors.HandleError(c, apperrors.New404Error("Article not found"))
		return nil, false
	}

	userModel, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if article.UserID != userModel.ID {
		apperrors.HandleError(c, apperrors.New403Error())
		return nil, false
	}

	return article, true
}

func jobJSON(job *models.GenerationJob) gin.H {
	out := gin.H{
		"job_id":     job.JobID,
		"keyword":    job.Keyword,
		"status":     job.Status,
		"cache_hit":  job.CacheHit,
		"started_at": job.StartedAt.Format(time.RFC3339),
	}
	if job.Status == models.JobStatusComplete {
		out["article_id"] = job.ArticleID
		out["finished_at"] = job.FinishedAt.Format(time.RFC3339)
		out["duration_secs"] = job.DurationSecs
		out["tokens_used"] = job.TokensUsed
	}
	if job.Status == models.JobStatusFailed {
		out["error"] = job.ErrorMessage
	}
	return out
}
