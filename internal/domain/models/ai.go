package models

// ProviderInput is the analysis snapshot handed to an AI backend. Its JSON
// shape is also what the input snapshot hash is computed over.
type ProviderInput struct {
	AssetSymbol    string             `json:"assetSymbol"`
	AsOf           string             `json:"asOf"`
	Resolution     string             `json:"resolution"`
	Trend          string             `json:"trend"`
	SignalStrength int                `json:"signalStrength"`
	KPIs           map[string]float64 `json:"kpis"`
	Rationale      string             `json:"rationale"`
}

// RawProviderOutput is the undecoded AI response. It must pass schema
// validation before anything in it is trusted.
type RawProviderOutput map[string]interface{}

// ProviderOutput is the fully validated AI response.
type ProviderOutput struct {
	Recommendation ProviderRecommendation
	Insight        ProviderInsight
	Model          ProviderModel
}

type ProviderRecommendation struct {
	Action          RecommendationAction
	ConfidenceScore float64
	Horizon         Horizon
	RiskLevel       RiskLevel
}

type ProviderInsight struct {
	Summary     string
	Reasoning   string
	Assumptions []string
	Caveats     []string
}

type ProviderModel struct {
	Name    string
	Version string
}
