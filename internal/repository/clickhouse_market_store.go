package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgch "MarketLens/pkg/clickhouse"
	applogger "MarketLens/pkg/logger"
)

// CHMarketStore implements PricePointStore backed by ClickHouse. The
// market_points table is a ReplacingMergeTree keyed by
// (symbol, resolution, ts), so re-saving the same bars under retries
// deduplicates instead of multiplying rows.
type CHMarketStore struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.PricePointStore = (*CHMarketStore)(nil)

func NewCHMarketStore(ch *pkgch.Client) *CHMarketStore {
	return &CHMarketStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHMarketStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHMarketStore) Save(ctx context.Context, points []models.PricePoint, resolution domrepo.Resolution) error {
	if len(points) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save points: %w", err)
	}

	const q = `
        INSERT INTO market_points (symbol, resolution, ts, open, high, low, close, volume)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare save points: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx,
			p.Symbol, string(resolution), p.Timestamp,
			p.Open, p.High, p.Low, p.Close, p.Volume,
		); err != nil {
			_ = tx.Rollback()
			if s.l != nil {
				s.l.Error("clickhouse save_points exec error",
					applogger.String("symbol", p.Symbol),
					applogger.String("resolution", string(resolution)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("insert price point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save points: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse save_points ok",
			applogger.String("symbol", points[0].Symbol),
			applogger.String("resolution", string(resolution)),
			applogger.Int("rows", len(points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHMarketStore) FindBySymbol(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	start := time.Now()
	const q = `
        SELECT symbol, ts, open, high, low, close, volume
        FROM market_points FINAL
        WHERE symbol = ?
        ORDER BY ts ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse find_points query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("find price points: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, 64)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Timestamp, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Debug("clickhouse find_points ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}
