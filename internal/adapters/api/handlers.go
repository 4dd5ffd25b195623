package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

// scanRequest is the body of POST /scan
type scanRequest struct {
	Content string `json:"content" binding:"required"`
	UserID  string `json:"user_id"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName,
		"version": serviceVersion,
		"endpoints": gin.H{
			"POST /scan":   "Analyze email content",
			"GET /history": "Get scan history",
			"GET /stats":   "Get scan statistics",
			"GET /health":  "Health check",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	if length := utf8.RuneCountInString(req.Content); length > s.cfg.MaxContentLength {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"detail": fmt.Sprintf("Content exceeds maximum length of %d characters", s.cfg.MaxContentLength),
		})
		return
	}

	record, err := s.service.Scan(c.Request.Context(), core.ScanRequest{Content: req.Content, UserID: req.UserID})
	if err != nil {
		s.logger.Error("Scan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error analyzing email: %v", err)})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := s.cfg.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	page, err := s.service.History(c.Request.Context(), c.Query("user_id"), limit)
	if err != nil {
		s.logger.Error("History lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error retrieving scan history: %v", err)})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.service.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("Stats calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error calculating statistics: %v", err)})
		return
	}

	c.JSON(http.StatusOK, stats)
}
