package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
)

func requireValidationError(t *testing.T, raw models.RawProviderOutput, field string) {
	t.Helper()
	_, err := ValidateProviderOutput(raw)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
}

func TestValidateNilOutput(t *testing.T) {
	requireValidationError(t, nil, "output")
}

func TestValidateMissingRecommendation(t *testing.T) {
	out := validProviderOutput()
	delete(out, "recommendation")
	requireValidationError(t, out, "recommendation")
}

func TestValidateConfidenceOutOfRange(t *testing.T) {
	out := validProviderOutput()
	out["recommendation"].(map[string]interface{})["confidenceScore"] = 1.5
	requireValidationError(t, out, "recommendation.confidenceScore")
}

func TestValidateConfidenceAsJSONNumber(t *testing.T) {
	out := validProviderOutput()
	out["recommendation"].(map[string]interface{})["confidenceScore"] = json.Number("0.75")

	parsed, err := ValidateProviderOutput(out)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, parsed.Recommendation.ConfidenceScore, 1e-9)
}

func TestValidateBadHorizon(t *testing.T) {
	out := validProviderOutput()
	out["recommendation"].(map[string]interface{})["horizon"] = "FOREVER"
	requireValidationError(t, out, "recommendation.horizon")
}

func TestValidateEmptySummary(t *testing.T) {
	out := validProviderOutput()
	out["insight"].(map[string]interface{})["summary"] = "   "
	requireValidationError(t, out, "insight.summary")
}

func TestValidateNonStringAssumption(t *testing.T) {
	out := validProviderOutput()
	out["insight"].(map[string]interface{})["assumptions"] = []interface{}{"ok", 42}
	requireValidationError(t, out, "insight.assumptions[1]")
}

func TestValidateCaveatsNotArray(t *testing.T) {
	out := validProviderOutput()
	out["insight"].(map[string]interface{})["caveats"] = "just a string"
	requireValidationError(t, out, "insight.caveats")
}

func TestValidateMissingModel(t *testing.T) {
	out := validProviderOutput()
	delete(out, "model")
	requireValidationError(t, out, "model")
}

func TestValidateEmptyArraysAllowed(t *testing.T) {
	out := validProviderOutput()
	out["insight"].(map[string]interface{})["assumptions"] = []interface{}{}
	out["insight"].(map[string]interface{})["caveats"] = []interface{}{}

	parsed, err := ValidateProviderOutput(out)
	require.NoError(t, err)
	assert.Empty(t, parsed.Insight.Assumptions)
	assert.Empty(t, parsed.Insight.Caveats)
}
