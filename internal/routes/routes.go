package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	handler "msme-credit-scoring-backend/internal/handlers"
)

// RegisterRoutes mounts the API on r. A nil metrics handler leaves
// /metrics unregistered.
func RegisterRoutes(r *gin.Engine, h *handler.AssessmentHandler, metrics http.Handler) {
	r.GET("/", h.Index)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")

	// Health check
	api.GET("/health", h.Health)

	// Scoring
	api.POST("/predict", h.Predict)
	api.POST("/explain", h.Explain)

	// Audit history
	history := api.Group("/assessments")
	{
		history.GET("", h.ListAssessments)
		history.GET("/:id", h.GetAssessment)
	}
}
