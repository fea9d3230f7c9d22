package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"MarketLens/internal/domain/models"
)

// OutputSchemaVersion identifies the AI output schema enforced below.
const OutputSchemaVersion = "1.0"

// ValidateProviderOutput checks an untrusted AI response against the output
// schema and returns either a fully typed value or a *models.ValidationError
// naming the offending field. No partially-typed access into the raw response
// is allowed anywhere else.
func ValidateProviderOutput(raw models.RawProviderOutput) (*models.ProviderOutput, error) {
	if raw == nil {
		return nil, &models.ValidationError{Field: "output", Reason: "must be an object"}
	}

	rec, ok := asObject(raw["recommendation"])
	if !ok {
		return nil, &models.ValidationError{Field: "recommendation", Reason: "missing or not an object"}
	}

	action, ok := asString(rec["action"])
	if !ok || !validAction(action) {
		return nil, &models.ValidationError{
			Field:  "recommendation.action",
			Reason: fmt.Sprintf("invalid action %q, must be BUY, HOLD, or SELL", rec["action"]),
		}
	}

	confidence, ok := asNumber(rec["confidenceScore"])
	if !ok || confidence < 0 || confidence > 1 {
		return nil, &models.ValidationError{
			Field:  "recommendation.confidenceScore",
			Reason: "must be a number between 0 and 1",
		}
	}

	horizon, ok := asString(rec["horizon"])
	if !ok || !validHorizon(horizon) {
		return nil, &models.ValidationError{
			Field:  "recommendation.horizon",
			Reason: fmt.Sprintf("invalid horizon %q, must be SHORT, MID, or LONG", rec["horizon"]),
		}
	}

	risk, ok := asString(rec["riskLevel"])
	if !ok || !validRisk(risk) {
		return nil, &models.ValidationError{
			Field:  "recommendation.riskLevel",
			Reason: fmt.Sprintf("invalid riskLevel %q, must be LOW, MEDIUM, or HIGH", rec["riskLevel"]),
		}
	}

	insight, ok := asObject(raw["insight"])
	if !ok {
		return nil, &models.ValidationError{Field: "insight", Reason: "missing or not an object"}
	}

	summary, ok := asString(insight["summary"])
	if !ok || strings.TrimSpace(summary) == "" {
		return nil, &models.ValidationError{Field: "insight.summary", Reason: "must be a non-empty string"}
	}

	reasoning, ok := asString(insight["reasoning"])
	if !ok || strings.TrimSpace(reasoning) == "" {
		return nil, &models.ValidationError{Field: "insight.reasoning", Reason: "must be a non-empty string"}
	}

	assumptions, err := asStringArray(insight["assumptions"], "insight.assumptions")
	if err != nil {
		return nil, err
	}
	caveats, err := asStringArray(insight["caveats"], "insight.caveats")
	if err != nil {
		return nil, err
	}

	model, ok := asObject(raw["model"])
	if !ok {
		return nil, &models.ValidationError{Field: "model", Reason: "missing or not an object"}
	}

	modelName, ok := asString(model["name"])
	if !ok || strings.TrimSpace(modelName) == "" {
		return nil, &models.ValidationError{Field: "model.name", Reason: "must be a non-empty string"}
	}

	modelVersion, ok := asString(model["version"])
	if !ok || strings.TrimSpace(modelVersion) == "" {
		return nil, &models.ValidationError{Field: "model.version", Reason: "must be a non-empty string"}
	}

	return &models.ProviderOutput{
		Recommendation: models.ProviderRecommendation{
			Action:          models.RecommendationAction(action),
			ConfidenceScore: confidence,
			Horizon:         models.Horizon(horizon),
			RiskLevel:       models.RiskLevel(risk),
		},
		Insight: models.ProviderInsight{
			Summary:     summary,
			Reasoning:   reasoning,
			Assumptions: assumptions,
			Caveats:     caveats,
		},
		Model: models.ProviderModel{
			Name:    modelName,
			Version: modelVersion,
		},
	}, nil
}

func validAction(s string) bool  { return s == "BUY" || s == "HOLD" || s == "SELL" }
func validHorizon(s string) bool { return s == "SHORT" || s == "MID" || s == "LONG" }
func validRisk(s string) bool    { return s == "LOW" || s == "MEDIUM" || s == "HIGH" }

func asObject(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asNumber accepts the numeric shapes a JSON decoder may hand us.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asStringArray(v interface{}, field string) ([]string, error) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, &models.ValidationError{Field: field, Reason: "must be an array"}
	}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, &models.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, i),
				Reason: "must be a string",
			}
		}
		out = append(out, s)
	}
	return out, nil
}
