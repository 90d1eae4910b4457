package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	handler "msme-credit-scoring-backend/internal/handlers"
	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/services/assessment"
	"msme-credit-scoring-backend/internal/services/explain"
	"msme-credit-scoring-backend/internal/services/features"
	"msme-credit-scoring-backend/internal/services/scoring"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logging.NewNoOpLogger()
	svc := assessment.NewService(scoring.NewAdapter(nil, logger), features.NewExtractor(nil), explain.NewEngine(""))
	h := handler.NewAssessmentHandler(svc, nil, 0, logger)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	r := gin.New()
	RegisterRoutes(r, h, metrics)

	routes := map[string]bool{}
	for _, info := range r.Routes() {
		routes[info.Method+" "+info.Path] = true
	}
	for _, want := range []string{
		"GET /",
		"GET /metrics",
		"GET /api/health",
		"POST /api/predict",
		"POST /api/explain",
		"GET /api/assessments",
		"GET /api/assessments/:id",
	} {
		assert.True(t, routes[want], want)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestRegisterRoutes_WithoutMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logging.NewNoOpLogger()
	svc := assessment.NewService(scoring.NewAdapter(nil, logger), features.NewExtractor(nil), explain.NewEngine(""))

	r := gin.New()
	RegisterRoutes(r, handler.NewAssessmentHandler(svc, nil, 0, logger), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
