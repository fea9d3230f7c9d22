package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgch "MarketLens/pkg/clickhouse"
	applogger "MarketLens/pkg/logger"
)

// CHRecommendationStore implements RecommendationStore backed by ClickHouse.
// Recommendations are append-only; FindLatest resolves by max created_at.
type CHRecommendationStore struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.RecommendationStore = (*CHRecommendationStore)(nil)

func NewCHRecommendationStore(ch *pkgch.Client) *CHRecommendationStore {
	return &CHRecommendationStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHRecommendationStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHRecommendationStore) Save(ctx context.Context, rec *models.Recommendation) error {
	start := time.Now()
	const q = `
        INSERT INTO recommendations (symbol, action, confidence_score, horizon, risk_level, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		rec.Symbol, string(rec.Action), rec.ConfidenceScore,
		string(rec.Horizon), string(rec.RiskLevel), rec.CreatedAt,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_recommendation error",
				applogger.String("symbol", rec.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert recommendation: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse save_recommendation ok",
			applogger.String("symbol", rec.Symbol),
			applogger.String("action", string(rec.Action)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHRecommendationStore) FindLatest(ctx context.Context, symbol string) (*models.Recommendation, error) {
	const q = `
        SELECT symbol, action, confidence_score, horizon, risk_level, created_at
        FROM recommendations
        WHERE symbol = ?
        ORDER BY created_at DESC
        LIMIT 1
    `
	var (
		rec             models.Recommendation
		action, horizon string
		risk            string
	)
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(
		&rec.Symbol, &action, &rec.ConfidenceScore, &horizon, &risk, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest recommendation: %w", err)
	}

	rec.Action = models.RecommendationAction(action)
	rec.Horizon = models.Horizon(horizon)
	rec.RiskLevel = models.RiskLevel(risk)
	return &rec, nil
}

// CHInsightStore implements InsightStore backed by ClickHouse. Assumptions
// and caveats are stored as JSON-encoded strings since the store goes through
// database/sql.
type CHInsightStore struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.InsightStore = (*CHInsightStore)(nil)

func NewCHInsightStore(ch *pkgch.Client) *CHInsightStore {
	return &CHInsightStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHInsightStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHInsightStore) Save(ctx context.Context, insight *models.InvestmentInsight) error {
	start := time.Now()

	assumptions, err := json.Marshal(insight.Assumptions)
	if err != nil {
		return fmt.Errorf("marshal assumptions: %w", err)
	}
	caveats, err := json.Marshal(insight.Caveats)
	if err != nil {
		return fmt.Errorf("marshal caveats: %w", err)
	}

	const q = `
        INSERT INTO insights (
            symbol, summary, reasoning, assumptions, caveats,
            model_name, model_version, prompt_version, output_schema_version,
            input_snapshot_hash, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		insight.Symbol, insight.Summary, insight.Reasoning,
		string(assumptions), string(caveats),
		insight.ModelName, insight.ModelVersion,
		insight.PromptVersion, insight.OutputSchemaVersion,
		insight.InputSnapshotHash, insight.CreatedAt,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_insight error",
				applogger.String("symbol", insight.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert insight: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse save_insight ok",
			applogger.String("symbol", insight.Symbol),
			applogger.String("hash", insight.InputSnapshotHash),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHInsightStore) FindLatest(ctx context.Context, symbol string) (*models.InvestmentInsight, error) {
	const q = `
        SELECT symbol, summary, reasoning, assumptions, caveats,
               model_name, model_version, prompt_version, output_schema_version,
               input_snapshot_hash, created_at
        FROM insights
        WHERE symbol = ?
        ORDER BY created_at DESC
        LIMIT 1
    `
	var (
		ins                  models.InvestmentInsight
		assumptions, caveats string
	)
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(
		&ins.Symbol, &ins.Summary, &ins.Reasoning, &assumptions, &caveats,
		&ins.ModelName, &ins.ModelVersion, &ins.PromptVersion, &ins.OutputSchemaVersion,
		&ins.InputSnapshotHash, &ins.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest insight: %w", err)
	}

	if err := json.Unmarshal([]byte(assumptions), &ins.Assumptions); err != nil {
		return nil, fmt.Errorf("unmarshal assumptions: %w", err)
	}
	if err := json.Unmarshal([]byte(caveats), &ins.Caveats); err != nil {
		return nil, fmt.Errorf("unmarshal caveats: %w", err)
	}
	return &ins, nil
}
