package repository

import "fmt"

// SchemaStatements returns idempotent DDL for all tables. market_points uses
// ReplacingMergeTree so duplicate deliveries of the same bar collapse to one
// row; recommendations and insights are append-only MergeTrees.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		`CREATE TABLE IF NOT EXISTS market_points (
            symbol     String,
            resolution String,
            ts         DateTime64(3, 'UTC'),
            open       Float64,
            high       Float64,
            low        Float64,
            close      Float64,
            volume     Float64
        ) ENGINE = ReplacingMergeTree()
        ORDER BY (symbol, resolution, ts)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
            symbol           String,
            action           String,
            confidence_score Float64,
            horizon          String,
            risk_level       String,
            created_at       DateTime64(3, 'UTC')
        ) ENGINE = MergeTree()
        ORDER BY (symbol, created_at)`,
		`CREATE TABLE IF NOT EXISTS insights (
            symbol                String,
            summary               String,
            reasoning             String,
            assumptions           String,
            caveats               String,
            model_name            String,
            model_version         String,
            prompt_version        String,
            output_schema_version String,
            input_snapshot_hash   String,
            created_at            DateTime64(3, 'UTC')
        ) ENGINE = MergeTree()
        ORDER BY (symbol, created_at)`,
	}
}
