package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one monotonic sequence shared by every event
// table, so answers and LLM calls can be ordered against each other and
// against snapshots. The mutex serializes within the process; RETURNING
// makes the increment atomic in the database.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

func newSequenceCounter(ctx context.Context, drv *entsql.Driver) (*sequenceCounter, error) {
	query, args := builder().Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	rows := &entsql.Rows{}
	err := sc.drv.Query(ctx,
		"UPDATE "+tableSequence+" SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1",
		[]any{}, rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	var seq int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return seq, nil
}

// Current returns the last sequence handed out.
func (sc *sequenceCounter) Current(ctx context.Context) (int64, error) {
	query, args := builder().Select("next_val").From(entsql.Table(tableSequence)).Where(entsql.EQ("id", 1)).Query()
	var next int64
	if err := queryOne(ctx, sc.drv, query, args, &next); err != nil {
		return 0, fmt.Errorf("current sequence: %w", err)
	}
	return next - 1, nil
}

// queryOne scans a single row into dest. It returns sql.ErrNoRows when
// the result is empty.
func queryOne(ctx context.Context, drv *entsql.Driver, query string, args []any, dest ...any) error {
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(dest...)
}
