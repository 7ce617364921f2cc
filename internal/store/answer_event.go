package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the event tables and the global sequence.
type eventRepo struct {
	store *Store
}

var answerColumns = []string{
	"id", "sequence", "created_at", "session_id", "question_id", "category",
	"formula_id", "tier", "correct", "time_ms", "is_recall", "mastery_signal",
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.store.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(tableAnswerEvents).
		Columns(answerColumns[1:]...).
		Values(
			seqNum, r.store.now().UnixMilli(),
			data.SessionID, data.QuestionID, data.Category, data.FormulaID, data.Tier,
			data.Correct, data.TimeMs, data.IsRecall, data.MasterySignal,
		).
		Query()
	if err := r.store.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, category string, opts QueryOpts) ([]AnswerEvent, error) {
	sel := builder().Select(answerColumns...).From(entsql.Table(tableAnswerEvents))
	preds := rangePredicates(opts)
	if category != "" {
		preds = append(preds, entsql.EQ("category", category))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.store.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			e  AnswerEvent
			ts int64
		)
		if err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.SessionID, &e.QuestionID, &e.Category,
			&e.FormulaID, &e.Tier, &e.Correct, &e.TimeMs, &e.IsRecall, &e.MasterySignal,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) RecentOutcomes(ctx context.Context, category string, limit int) ([]bool, error) {
	if limit <= 0 {
		return nil, nil
	}
	sel := builder().Select("correct").
		From(entsql.Table(tableAnswerEvents)).
		OrderBy(entsql.Desc("sequence")).
		Limit(limit)
	if category != "" {
		sel.Where(entsql.EQ("category", category))
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.store.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query recent outcomes: %w", err)
	}
	defer rows.Close()

	var newestFirst []bool
	for rows.Next() {
		var ok bool
		if err := rows.Scan(&ok); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		newestFirst = append(newestFirst, ok)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]bool, len(newestFirst))
	for i, v := range newestFirst {
		out[len(out)-1-i] = v
	}
	return out, nil
}

// rangePredicates turns the sequence and time bounds of opts into predicates.
func rangePredicates(opts QueryOpts) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	return preds
}
