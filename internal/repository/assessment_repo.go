package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"msme-credit-scoring-backend/internal/models"
)

// ErrNotFound is returned when no assessment has the requested ID.
var ErrNotFound = errors.New("assessment not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Record stores the audit row for a scored statement.
func (r *AssessmentRepository) Record(ctx context.Context, filename string, resp *models.AssessmentResponse) error {
	row, err := NewAssessmentRecord(filename, resp)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// NewAssessmentRecord flattens a response into its audit row.
func NewAssessmentRecord(filename string, resp *models.AssessmentResponse) (*models.Assessment, error) {
	features, err := json.Marshal(resp.Features)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}
	explanation, err := json.Marshal(resp.Prediction.Explanations)
	if err != nil {
		return nil, fmt.Errorf("encode explanation: %w", err)
	}

	pred := resp.Prediction
	return &models.Assessment{
		ID:               resp.AssessmentID,
		Filename:         filename,
		TransactionCount: resp.Features.TransactionCount,
		DecisionStatus:   string(pred.Status),
		AltScore:         pred.Score,
		InterestRate:     pred.InterestRate,
		RecommendedLimit: pred.Limit,
		ModelUsed:        pred.ModelUsed,
		ModelType:        pred.ModelType,
		BusinessBehavior: string(pred.Explanations.BusinessBehavior),
		RiskAssessment:   string(pred.Explanations.RiskAssessment),
		Features:         features,
		Explanation:      explanation,
	}, nil
}

// ListFilter narrows the assessment history. Zero values mean no filter.
type ListFilter struct {
	Status    string
	ModelUsed *bool
	Limit     int
	Offset    int
}

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	f.Limit = min(f.Limit, maxPageSize)
	f.Offset = max(f.Offset, 0)
	return f
}

// List returns the newest assessments first, with the total matching count.
func (r *AssessmentRepository) List(ctx context.Context, filter ListFilter) ([]models.Assessment, int64, error) {
	filter = filter.normalized()

	query := r.db.WithContext(ctx).Model(&models.Assessment{})
	if filter.Status != "" {
		query = query.Where("decision_status = ?", filter.Status)
	}
	if filter.ModelUsed != nil {
		query = query.Where("model_used = ?", *filter.ModelUsed)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Assessment
	err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	var row models.Assessment
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
