package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/models"
	"msme-credit-scoring-backend/internal/repository"
	"msme-credit-scoring-backend/internal/services/assessment"
	"msme-credit-scoring-backend/internal/services/explain"
	"msme-credit-scoring-backend/internal/services/features"
	"msme-credit-scoring-backend/internal/services/scoring"
)

const statementCSV = `Receipt No.,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance
RX1,2024-03-01 09:00:00,Customer payment,Completed,2500,,7500
RX2,2024-03-02 10:00:00,Loan Repayment,Completed,,800,6700
RX3,2024-03-04 11:30:00,Customer payment,Completed,"1,200",,7900
RX4,2024-03-05 12:00:00,Send Money to Jane,Completed,,300,7600
`

type fakeHistory struct {
	rows   []models.Assessment
	filter repository.ListFilter
	err    error
}

func (f *fakeHistory) List(_ context.Context, filter repository.ListFilter) ([]models.Assessment, int64, error) {
	f.filter = filter
	return f.rows, int64(len(f.rows)), f.err
}

func (f *fakeHistory) GetByID(_ context.Context, id uuid.UUID) (*models.Assessment, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestRouter(history HistoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logging.NewNoOpLogger()
	svc := assessment.NewService(
		scoring.NewAdapter(nil, logger),
		features.NewExtractor(nil),
		explain.NewEngine("KES"),
		assessment.WithLogger(logger),
		assessment.WithClock(func() time.Time { return time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC) }),
	)
	h := NewAssessmentHandler(svc, history, 1<<20, logger)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/", h.Index)
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/predict", h.Predict)
	api.POST("/explain", h.Explain)
	api.GET("/assessments", h.ListAssessments)
	api.GET("/assessments/:id", h.GetAssessment)
	return r
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/predict", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPredict(t *testing.T) {
	r := newTestRouter(nil)

	for _, field := range []string{"mpesa_statement", "file"} {
		t.Run(field, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, uploadRequest(t, field, "statement.csv", statementCSV))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

			var resp models.AssessmentResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "success", resp.Status)
			assert.Equal(t, 4, resp.Features.TransactionCount)
			assert.Equal(t, 3700.0, resp.Features.MonthlyInflow)
			assert.Equal(t, 1100.0, resp.Features.MonthlyOutflow)
			assert.Equal(t, 1, resp.Features.Repayments)
			assert.Len(t, resp.Transactions, 4)
			assert.False(t, resp.Prediction.ModelUsed)
			assert.Len(t, resp.Prediction.Explanations.Explanations, 4)
			assert.Equal(t, "2025-02-01T08:00:00.000000", resp.Timestamp)
		})
	}
}

func TestPredict_BadRequests(t *testing.T) {
	r := newTestRouter(nil)

	tests := []struct {
		name    string
		req     *http.Request
		wantErr string
	}{
		{"no file", uploadRequest(t, "", "", ""), "No file uploaded"},
		{"wrong field", uploadRequest(t, "document", "statement.csv", statementCSV), "No file uploaded"},
		{"not csv", uploadRequest(t, "file", "statement.xlsx", statementCSV), "File must be a CSV"},
		{"missing columns", uploadRequest(t, "file", "statement.csv", "Receipt No.,Details\nR1,x\n"), "CSV missing required columns"},
		{"header only", uploadRequest(t, "file", "STATEMENT.CSV", strings.SplitN(statementCSV, "\n", 2)[0]+"\n"), "no transactions"},
		{"empty file", uploadRequest(t, "file", "statement.csv", ""), "cannot read CSV header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, tt.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode(t, rec)["error"], tt.wantErr)
		})
	}
}

func TestPredict_MissingColumnsListed(t *testing.T) {
	r := newTestRouter(nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "file", "s.csv", "receipt_no,details,balance\nR1,x,1\n"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		[]any{"completion_time", "transaction_status", "paid_in", "withdrawn"},
		decode(t, rec)["missing_columns"])
}

func TestExplain(t *testing.T) {
	r := newTestRouter(nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
		check    func(t *testing.T, body map[string]any)
	}{
		{
			name:     "rejected decision",
			body:     `{"features": {"net_cash_flow": -3000, "balance_volatility": 5000, "transaction_count": 12}, "prediction": 0, "probability": 0.2}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				pkg := body["explanations"].(map[string]any)
				assert.Equal(t, "High Risk", pkg["risk_assessment"])
				assert.Equal(t, "Volatile Business", pkg["business_behavior"])
				assert.Len(t, pkg["explanations"], 4)
			},
		},
		{
			name:     "no features",
			body:     `{"features": {}, "prediction": 1}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "No features provided", body["error"])
			},
		},
		{
			name:     "malformed json",
			body:     `{"features":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/explain", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.check != nil {
				tt.check(t, decode(t, rec))
			}
		})
	}
}

func TestHealthAndIndex(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode(t, rec)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "not loaded", health["model_status"])
	assert.Equal(t, "none", health["model_type"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	index := decode(t, rec)
	assert.Equal(t, false, index["model_loaded"])
	assert.Contains(t, index["endpoints"], "POST /api/predict")
}

func TestAssessmentHistory(t *testing.T) {
	id := uuid.New()
	history := &fakeHistory{rows: []models.Assessment{{ID: id, Filename: "march.csv", DecisionStatus: "APPROVED"}}}
	r := newTestRouter(history)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments?status=approved&model_used=true&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["total"])
	assert.Equal(t, "APPROVED", history.filter.Status)
	require.NotNil(t, history.filter.ModelUsed)
	assert.True(t, *history.filter.ModelUsed)
	assert.Equal(t, 5, history.filter.Limit)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments?model_used=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessmentHistory_Errors(t *testing.T) {
	r := newTestRouter(&fakeHistory{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "db down", body["error"])
}

func TestAssessmentHistory_Disabled(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["audit_enabled"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assessments/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
