package advisor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/startuphub/startup-advisor/pkg/logger"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r gin.IRouter, h *Handler) {
	v1 := r.Group("/api/v1")
	v1.POST("/suggest", h.Suggest)
}

type suggestRequest struct {
	Prompt string `json:"prompt"`
}

// Suggest handles POST /api/v1/suggest. A missing or blank prompt is a
// 400; pipeline failures are 500 with the error message. Generation
// hiccups are not errors here, the service degrades those to the
// fallback answer.
func (h *Handler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyPrompt.Error()})
		return
	}

	resp, err := h.svc.Suggest(c.Request.Context(), req.Prompt, requestBaseURL(c))
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyPrompt.Error()})
			return
		}
		logger.Error(c.Request.Context(), "suggestion pipeline failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// requestBaseURL reconstructs the scheme and host the client used, for
// qualifying logo image URLs in the response.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
