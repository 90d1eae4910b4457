package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/models"
	"msme-credit-scoring-backend/internal/repository"
	"msme-credit-scoring-backend/internal/services/assessment"
	"msme-credit-scoring-backend/internal/services/explain"
	"msme-credit-scoring-backend/internal/services/statement"
)

// Upload form fields, in lookup order.
var uploadFields = []string{"mpesa_statement", "file"}

// HistoryStore reads the assessment audit trail.
type HistoryStore interface {
	List(ctx context.Context, filter repository.ListFilter) ([]models.Assessment, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error)
}

type AssessmentHandler struct {
	service        *assessment.Service
	history        HistoryStore // nil when auditing is off
	maxUploadBytes int64
	logger         *logging.Logger
}

func NewAssessmentHandler(s *assessment.Service, history HistoryStore, maxUploadBytes int64, logger *logging.Logger) *AssessmentHandler {
	if logger == nil {
		logger = logging.L()
	}
	return &AssessmentHandler{
		service:        s,
		history:        history,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("http"),
	}
}

// Predict scores an uploaded statement CSV.
func (h *AssessmentHandler) Predict(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, filename, err := h.uploadedFile(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be a CSV"})
		return
	}

	table, err := statement.ReadCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Assess(c.Request.Context(), table, filename)
	if err != nil {
		var schemaErr *statement.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": schemaErr.Error(), "missing_columns": schemaErr.Missing})
		case errors.Is(err, statement.ErrEmptyStatement):
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file contains no transactions"})
		default:
			h.serverError(c, "prediction failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AssessmentHandler) uploadedFile(c *gin.Context) (multipart.File, string, error) {
	var lastErr error
	for _, field := range uploadFields {
		file, header, err := c.Request.FormFile(field)
		if err == nil {
			return file, header.Filename, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", lastErr
}

// Explain returns a rationale for a decision supplied by the caller.
func (h *AssessmentHandler) Explain(c *gin.Context) {
	var req assessment.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	resp, err := h.service.Explain(req)
	if errors.Is(err, explain.ErrNoFeatures) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No features provided"})
		return
	}
	if err != nil {
		h.serverError(c, "explanation failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AssessmentHandler) Health(c *gin.Context) {
	info := h.service.DescribeClassifier()
	status, modelType := "not loaded", "none"
	if info.Loaded {
		status, modelType = "loaded", info.Type
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    h.timestamp(),
		"model_status": status,
		"model_type":   modelType,
		"classifier":   info,
		"audit":        h.history != nil,
		"message":      "Credit Scoring API with AI Model & Explanation Engine",
	})
}

func (h *AssessmentHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":            "M-Pesa AI Credit Scoring API",
		"version":            "2.0",
		"model_loaded":       h.service.DescribeClassifier().Loaded,
		"explanation_engine": "Enabled",
		"endpoints": gin.H{
			"POST /api/predict":         "Upload CSV for AI credit scoring with explanations",
			"POST /api/explain":         "Get explanations for existing predictions",
			"GET /api/health":           "Health check",
			"GET /api/assessments":      "List recorded assessments",
			"GET /api/assessments/{id}": "Fetch one recorded assessment",
			"GET /metrics":              "Prometheus metrics",
		},
	})
}

// ListAssessments pages through the audit trail, newest first.
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"data": []models.Assessment{}, "total": 0, "audit_enabled": false})
		return
	}

	filter := repository.ListFilter{Status: strings.ToUpper(c.Query("status"))}
	if v := c.Query("model_used"); v != "" {
		used, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "model_used must be true or false"})
			return
		}
		filter.ModelUsed = &used
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	rows, total, err := h.history.List(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, "list assessments", err)
		return
	}
	if rows == nil {
		rows = []models.Assessment{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "total": total, "audit_enabled": true})
}

func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assessment ID"})
		return
	}
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment history is disabled"})
		return
	}

	row, err := h.history.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
		return
	}
	if err != nil {
		h.serverError(c, "get assessment", err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *AssessmentHandler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":    "error",
		"error":     err.Error(),
		"timestamp": h.timestamp(),
	})
}

func (h *AssessmentHandler) timestamp() string {
	return h.service.Now().Format(assessment.TimestampLayout)
}
