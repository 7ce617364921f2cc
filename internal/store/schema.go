package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableSnapshots    = "model_snapshots"
	tableAnswerEvents = "answer_events"
	tableLLMEvents    = "llm_events"
	tableSequence     = "global_sequence"
)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func idColumn() *entsql.ColumnBuilder {
	return entsql.Column("id").Type("integer").Attr("PRIMARY KEY AUTOINCREMENT")
}

func col(name, typ string) *entsql.ColumnBuilder {
	return entsql.Column(name).Type(typ).Attr("NOT NULL")
}

// tables returns the CREATE TABLE statements for every table the store uses.
// Timestamps are stored as epoch milliseconds.
func tables() []*entsql.TableBuilder {
	b := builder()
	return []*entsql.TableBuilder{
		b.CreateTable(tableSequence).IfNotExists().Columns(
			entsql.Column("id").Type("integer").Attr("PRIMARY KEY CHECK (id = 1)"),
			entsql.Column("next_val").Type("integer").Attr("NOT NULL DEFAULT 1"),
		),
		b.CreateTable(tableSnapshots).IfNotExists().Columns(
			idColumn(),
			col("sequence", "integer"),
			col("created_at", "integer"),
			col("data", "text"),
		),
		b.CreateTable(tableAnswerEvents).IfNotExists().Columns(
			idColumn(),
			col("sequence", "integer"),
			col("created_at", "integer"),
			col("session_id", "text"),
			col("question_id", "integer"),
			col("category", "text"),
			col("formula_id", "text"),
			col("tier", "text"),
			col("correct", "boolean"),
			col("time_ms", "integer"),
			col("is_recall", "boolean"),
			col("mastery_signal", "text"),
		),
		b.CreateTable(tableLLMEvents).IfNotExists().Columns(
			idColumn(),
			col("sequence", "integer"),
			col("created_at", "integer"),
			col("provider", "text"),
			col("model", "text"),
			col("purpose", "text"),
			col("input_tokens", "integer"),
			col("output_tokens", "integer"),
			col("latency_ms", "integer"),
			col("success", "boolean"),
			col("error_message", "text"),
			col("request_body", "text"),
			col("response_body", "text"),
		),
	}
}

// migrate creates missing tables. Existing tables are left untouched.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, t := range tables() {
		query, args := t.Query()
		if err := drv.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
