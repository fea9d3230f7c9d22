package models

import "time"

// RecommendationAction is the advised trade action.
type RecommendationAction string

const (
	ActionBuy  RecommendationAction = "BUY"
	ActionHold RecommendationAction = "HOLD"
	ActionSell RecommendationAction = "SELL"
)

// Horizon is the investment horizon a recommendation applies to.
type Horizon string

const (
	HorizonShort Horizon = "SHORT"
	HorizonMid   Horizon = "MID"
	HorizonLong  Horizon = "LONG"
)

// RiskLevel grades the risk attached to a recommendation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Recommendation is a persisted, validated trade recommendation.
type Recommendation struct {
	Symbol          string               `json:"symbol"`
	Action          RecommendationAction `json:"action"`
	ConfidenceScore float64              `json:"confidenceScore"`
	Horizon         Horizon              `json:"horizon"`
	RiskLevel       RiskLevel            `json:"riskLevel"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// InvestmentInsight is the persisted narrative companion of a recommendation,
// stamped with full model and prompt provenance plus the hash of the exact
// analysis snapshot it was generated from.
type InvestmentInsight struct {
	Symbol              string    `json:"symbol"`
	Summary             string    `json:"summary"`
	Reasoning           string    `json:"reasoning"`
	Assumptions         []string  `json:"assumptions"`
	Caveats             []string  `json:"caveats"`
	ModelName           string    `json:"modelName"`
	ModelVersion        string    `json:"modelVersion"`
	PromptVersion       string    `json:"promptVersion"`
	OutputSchemaVersion string    `json:"outputSchemaVersion"`
	InputSnapshotHash   string    `json:"inputSnapshotHash"`
	CreatedAt           time.Time `json:"createdAt"`
}
