// Package database defines the insertions and transactions to the database
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"namegen-api/internal/shared"
)

type dailyStats struct {
	Date      string
	Provider  string
	Outcome   string
	Count     uint64
	TotalTime int64
}

// Store writes generation history to MySQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveGenerations inserts the records and bumps the daily aggregates in one
// transaction.
func (s *Store) SaveGenerations(ctx context.Context, records []shared.GenerationRecord) error {
	if len(records) == 0 {
		return nil
	}
	return ExecuteTransaction(ctx, s.db, []func(*sql.Tx) error{
		func(tx *sql.Tx) error {
			return insertGenerations(ctx, tx, records)
		},
		func(tx *sql.Tx) error {
			return upsertDailyStats(ctx, tx, records)
		},
	})
}

func insertGenerations(ctx context.Context, tx *sql.Tx, records []shared.GenerationRecord) error {
	query, vals := buildGenerationInsert(records)
	if _, err := tx.ExecContext(ctx, query, vals...); err != nil {
		return fmt.Errorf("failed to save generations: %w", err)
	}
	return nil
}

func buildGenerationInsert(records []shared.GenerationRecord) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO generation (
		request_id, instance_id, provider, prompt, identifier, outcome, total_time, created_at
	) VALUES `)
	vals := make([]any, 0, len(records)*8)
	for i, r := range records {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
		vals = append(vals,
			r.RequestID, r.InstanceID, r.Provider,
			truncateUTF8(r.Prompt, shared.MaxStoredPromptLen),
			truncateUTF8(r.Identifier, shared.MaxStoredIdentifierLen),
			r.Outcome,
			r.Duration.Milliseconds(), r.CreatedAt,
		)
	}
	return sb.String(), vals
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func upsertDailyStats(ctx context.Context, tx *sql.Tx, records []shared.GenerationRecord) error {
	query, vals := buildDailyStatsUpsert(records)
	if _, err := tx.ExecContext(ctx, query, vals...); err != nil {
		return fmt.Errorf("failed to save daily stats: %w", err)
	}
	return nil
}

func buildDailyStatsUpsert(records []shared.GenerationRecord) (string, []any) {
	aggregated := map[string]*dailyStats{}
	var order []string
	for _, r := range records {
		date := r.CreatedAt.UTC().Format("2006-01-02")
		key := date + "|" + r.Provider + "|" + r.Outcome
		existing, ok := aggregated[key]
		if !ok {
			existing = &dailyStats{Date: date, Provider: r.Provider, Outcome: r.Outcome}
			aggregated[key] = existing
			order = append(order, key)
		}
		existing.Count++
		existing.TotalTime += r.Duration.Milliseconds()
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO daily_generation_stats (
		date, provider, outcome, request_count, total_time
	) VALUES `)
	vals := make([]any, 0, len(order)*5)
	for i, key := range order {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		v := aggregated[key]
		vals = append(vals, v.Date, v.Provider, v.Outcome, v.Count, v.TotalTime)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE
		request_count = request_count + VALUES(request_count),
		total_time = total_time + VALUES(total_time)`)
	return sb.String(), vals
}

// ExecuteTransaction executes one transaction with one or multiple database executions.
func ExecuteTransaction(ctx context.Context, writeDB *sql.DB, fns []func(*sql.Tx) error) error {
	tx, err := writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Execute all functions in the transaction
	for _, fn := range fns {
		if err := fn(tx); err != nil {
			return fmt.Errorf("failed to execute transaction function: %w", err)
		}
	}

	// Commit the transaction if all functions succeeded
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
