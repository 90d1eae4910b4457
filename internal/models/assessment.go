package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Prediction merges the decision with its explanation.
type Prediction struct {
	DecisionOutcome
	Explanations ExplanationPackage `json:"explanations"`
}

// AssessmentResponse is the full payload returned for a scored statement.
type AssessmentResponse struct {
	Status       string            `json:"status"`
	AssessmentID uuid.UUID         `json:"assessment_id"`
	Features     FeatureVector     `json:"features"`
	Transactions []TransactionView `json:"transactions"`
	Prediction   Prediction        `json:"prediction"`
	Timestamp    string            `json:"timestamp"`
}

// Assessment is the audit row written for every scored statement when auditing is enabled.
type Assessment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename         string
	TransactionCount int
	DecisionStatus   string `gorm:"index"`
	AltScore         float64
	InterestRate     float64
	RecommendedLimit float64
	ModelUsed        bool `gorm:"index"`
	ModelType        string
	BusinessBehavior string
	RiskAssessment   string
	Features         datatypes.JSON
	Explanation      datatypes.JSON
	CreatedAt        time.Time `gorm:"index"`
}
