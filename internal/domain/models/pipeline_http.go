package models

type RunPipelineRequest struct {
	Symbol     string `json:"symbol" query:"symbol" validate:"required,min=1,max=32"`
	Resolution string `json:"resolution" query:"resolution" default:"1d" validate:"oneof=1h 1d 1wk"`
}

type LatestRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=32"`
}

type MarketDataRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required,min=1,max=32"`
	Resolution string `query:"resolution" json:"resolution" default:"1d" validate:"oneof=1h 1d 1wk"`
	From       string `query:"from" json:"from"`
	To         string `query:"to" json:"to"`
	Limit      int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
