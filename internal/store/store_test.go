package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/drillz/internal/difficulty"
	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/model"
)

func openTestStore(t *testing.T, log *logger.Logger) *Store {
	t.Helper()
	// A distinct shared-cache name per test keeps parallel packages apart.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn, log)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t, nil)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestModelLoadEmpty(t *testing.T) {
	s := openTestStore(t, nil)
	m, err := s.ModelRepo().Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotNil(t, m.QuestionPool)
	assert.NotNil(t, m.StatsByCategory)
	assert.NotNil(t, m.StatsByFormula)
	assert.NotNil(t, m.QuestionWeights)
	assert.NotNil(t, m.ReviewQueue)
}

func TestModelSaveAndLoad(t *testing.T) {
	s := openTestStore(t, nil)
	repo := s.ModelRepo()
	ctx := context.Background()

	m := model.NewUserModel()
	require.NoError(t, m.RegisterQuestion(model.Question{
		ID: 100, Category: model.CategoryAR, FormulaID: "ar.rate",
		Tier: difficulty.TierHard, Choices: []string{"1", "2", "3", "4"}, Answer: "2",
	}))
	st := m.CategoryStats(model.CategoryAR)
	st.Attempts, st.Correct, st.EWMA, st.Initialized = 3, 2, 0.4, true
	st.LastAttemptAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.ReviewQueue = append(m.ReviewQueue, model.ReviewItem{QuestionID: 100, DueAt: 1234, Reason: model.ReasonMistake, Seq: 1})
	m.ReviewSeq = 1

	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	q, ok := got.Question(100)
	require.True(t, ok)
	assert.Equal(t, difficulty.TierHard, q.Tier)
	assert.Equal(t, []string{"1", "2", "3", "4"}, q.Choices)
	assert.Equal(t, 3, got.StatsByCategory[model.CategoryAR].Attempts)
	assert.True(t, got.StatsByCategory[model.CategoryAR].LastAttemptAt.Equal(st.LastAttemptAt))
	assert.Equal(t, m.ReviewQueue, got.ReviewQueue)
	assert.Equal(t, int64(1), got.ReviewSeq)
}

func TestModelLoadReturnsLatest(t *testing.T) {
	s := openTestStore(t, nil)
	repo := s.ModelRepo()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		m := model.NewUserModel()
		m.ReviewSeq = int64(i)
		require.NoError(t, repo.Save(ctx, m))
	}
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ReviewSeq)
}

func TestModelLoadCorruptFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := openTestStore(t, logger.FromCore(core))
	ctx := context.Background()

	_, err := s.DB().Exec(`INSERT INTO model_snapshots (sequence, created_at, data) VALUES (0, 0, '{not json')`)
	require.NoError(t, err)

	m, err := s.ModelRepo().Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Empty(t, m.QuestionPool)
	assert.Equal(t, 1, logs.FilterMessage("discarding corrupt snapshot").Len())
}

func TestModelLoadUnknownVersionFallsBack(t *testing.T) {
	s := openTestStore(t, nil)
	_, err := s.DB().Exec(`INSERT INTO model_snapshots (sequence, created_at, data) VALUES (0, 0, '{"version": 99, "model": {}}')`)
	require.NoError(t, err)

	m, err := s.ModelRepo().Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, m.QuestionPool)
}

func TestModelPrune(t *testing.T) {
	s := openTestStore(t, nil)
	repo := s.ModelRepo()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		m := model.NewUserModel()
		m.ReviewSeq = int64(i)
		require.NoError(t, repo.Save(ctx, m))
	}
	require.NoError(t, repo.Prune(ctx, 2))

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM model_snapshots`).Scan(&n))
	assert.Equal(t, 2, n)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ReviewSeq)

	// Pruning with fewer snapshots than keep is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t, nil)
	repo := s.EventRepo()
	ctx := context.Background()

	outcomes := []bool{true, false, true, true}
	for i, ok := range outcomes {
		require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{
			SessionID: "s1", QuestionID: i, Category: model.CategoryAR,
			Tier: "easy", Correct: ok, TimeMs: 1000 * (i + 1), MasterySignal: "cycle_continues",
		}))
	}
	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{SessionID: "s1", QuestionID: 9, Category: model.CategoryWK, Correct: false}))

	events, err := repo.QueryAnswers(ctx, model.CategoryAR, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Sequence, events[i-1].Sequence)
	}
	assert.Equal(t, 2000, events[1].TimeMs)
	assert.False(t, events[1].Correct)

	recent, err := repo.RecentOutcomes(ctx, model.CategoryAR, 3)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, recent)

	all, err := repo.QueryAnswers(ctx, "", QueryOpts{After: events[3].Sequence})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.CategoryWK, all[0].Category)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t, nil)
	clock := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return clock }
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "refine", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "refine", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "refine-heavy", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, c := range calls {
		require.NoError(t, repo.AppendLLMRequest(ctx, c))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "refine-heavy", events[0].Purpose)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.True(t, events[0].Timestamp.Equal(clock))

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "refine"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	e, err := repo.GetLLMEvent(ctx, filtered[0].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 300, e.InputTokens)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsage{Purpose: "refine", Calls: 2, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 300}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "claude-sonnet-4-20250514", byModel[0].Model)
	assert.Equal(t, 2, byModel[0].Calls)
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t, nil)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{Category: model.CategoryAR}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "refine"}))
	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{Category: model.CategoryAR}))

	answers, err := repo.QueryAnswers(ctx, "", QueryOpts{})
	require.NoError(t, err)
	llm, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)

	require.Len(t, answers, 2)
	require.Len(t, llm, 1)
	assert.Less(t, answers[0].Sequence, llm[0].Sequence)
	assert.Less(t, llm[0].Sequence, answers[1].Sequence)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("DRILLZ_DB", dir+"/custom/x.db")
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/custom/x.db", p)
	assert.DirExists(t, dir+"/custom")

	t.Setenv("DRILLZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/drillz/drillz.db", p)
}
