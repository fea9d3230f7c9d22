package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// maxPromptFieldLen caps sanitized string fields embedded into prompts.
const maxPromptFieldLen = 2000

// InsightResult pairs the recommendation and insight produced by one
// generation; both carry the same CreatedAt stamp.
type InsightResult struct {
	Recommendation models.Recommendation
	Insight        models.InvestmentInsight
}

// InsightGenerator builds a hashable snapshot of an analysis, sanitizes it,
// invokes the AI backend, and strictly validates the structured response
// before mapping it into domain records.
type InsightGenerator struct {
	backend       domsvc.AIBackend
	promptVersion string
}

func NewInsightGenerator(backend domsvc.AIBackend, promptVersion string) *InsightGenerator {
	return &InsightGenerator{backend: backend, promptVersion: promptVersion}
}

// Generate runs the snapshot-hash-sanitize-invoke-validate sequence. The
// snapshot hash is taken over the unsanitized canonical input, so it records
// exactly what the analysis said; sanitization only guards the prompt path.
// An invalid AI response surfaces as *models.ValidationError and nothing of
// the raw output escapes.
func (g *InsightGenerator) Generate(ctx context.Context, analysis models.MarketAnalysis) (*InsightResult, error) {
	input := buildProviderInput(analysis)

	hash, err := SnapshotHash(input)
	if err != nil {
		return nil, err
	}

	raw, err := g.backend.Generate(ctx, sanitizeProviderInput(input))
	if err != nil {
		return nil, &models.BackendError{Op: "generate insight", Err: err}
	}

	output, err := ValidateProviderOutput(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &InsightResult{
		Recommendation: models.Recommendation{
			Symbol:          analysis.Symbol,
			Action:          output.Recommendation.Action,
			ConfidenceScore: output.Recommendation.ConfidenceScore,
			Horizon:         output.Recommendation.Horizon,
			RiskLevel:       output.Recommendation.RiskLevel,
			CreatedAt:       now,
		},
		Insight: models.InvestmentInsight{
			Symbol:              analysis.Symbol,
			Summary:             output.Insight.Summary,
			Reasoning:           output.Insight.Reasoning,
			Assumptions:         output.Insight.Assumptions,
			Caveats:             output.Insight.Caveats,
			ModelName:           output.Model.Name,
			ModelVersion:        output.Model.Version,
			PromptVersion:       g.promptVersion,
			OutputSchemaVersion: OutputSchemaVersion,
			InputSnapshotHash:   hash,
			CreatedAt:           now,
		},
	}, nil
}

func buildProviderInput(analysis models.MarketAnalysis) models.ProviderInput {
	return models.ProviderInput{
		AssetSymbol:    analysis.Symbol,
		AsOf:           analysis.AsOf.UTC().Format(time.RFC3339),
		Resolution:     analysis.Resolution,
		Trend:          string(analysis.Trend),
		SignalStrength: analysis.SignalStrength,
		KPIs:           analysis.KPIs,
		Rationale:      analysis.Rationale,
	}
}

func sanitizeProviderInput(in models.ProviderInput) models.ProviderInput {
	out := in
	out.AssetSymbol = SanitizePromptField(in.AssetSymbol)
	out.AsOf = SanitizePromptField(in.AsOf)
	out.Resolution = SanitizePromptField(in.Resolution)
	out.Trend = SanitizePromptField(in.Trend)
	out.Rationale = SanitizePromptField(in.Rationale)
	return out
}

var promptCharStripper = strings.NewReplacer("{", "", "}", "", "<", "", ">", "")

// SanitizePromptField strips template delimiters and code-fence markers from a
// string destined for an external prompt, then truncates the remainder to
// maxPromptFieldLen runes. Single and double backticks are preserved.
func SanitizePromptField(s string) string {
	sanitized := promptCharStripper.Replace(s)
	sanitized = strings.ReplaceAll(sanitized, "```", "")

	if utf8.RuneCountInString(sanitized) > maxPromptFieldLen {
		runes := []rune(sanitized)
		sanitized = string(runes[:maxPromptFieldLen])
	}
	return sanitized
}
