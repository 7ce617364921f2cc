package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/drillz/internal/model"
)

// snapshotVersion is bumped when the persisted layout changes incompatibly.
const snapshotVersion = 1

// snapshotData is the JSON envelope stored per snapshot.
type snapshotData struct {
	Version int              `json:"version"`
	Model   *model.UserModel `json:"model"`
}

// modelRepo implements ModelRepo on the model_snapshots table.
type modelRepo struct {
	store *Store
}

func (r *modelRepo) Load(ctx context.Context) (*model.UserModel, error) {
	query, args := builder().Select("id", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var (
		id  int
		raw string
	)
	err := queryOne(ctx, r.store.drv, query, args, &id, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewUserModel(), nil
	}
	if err != nil {
		return model.NewUserModel(), fmt.Errorf("query latest snapshot: %w", err)
	}

	m, err := decodeSnapshot([]byte(raw))
	if err != nil {
		r.store.log.Warn("discarding corrupt snapshot", "snapshot_id", id, "error", err)
		return model.NewUserModel(), nil
	}
	return m, nil
}

func (r *modelRepo) Save(ctx context.Context, m *model.UserModel) error {
	b, err := json.Marshal(snapshotData{Version: snapshotVersion, Model: m})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	seq, err := r.store.seq.Current(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(tableSnapshots).
		Columns("sequence", "created_at", "data").
		Values(seq, r.store.now().UnixMilli(), string(b)).
		Query()
	if err := r.store.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *modelRepo) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	// The keep-th most recent snapshot marks the newest one to delete.
	query, args := builder().Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int
	err := queryOne(ctx, r.store.drv, query, args, &threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder().Delete(tableSnapshots).
		Where(entsql.LTE("id", threshold)).
		Query()
	if err := r.store.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func decodeSnapshot(raw []byte) (*model.UserModel, error) {
	var data snapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if data.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", data.Version)
	}
	if data.Model == nil {
		return nil, fmt.Errorf("snapshot has no model")
	}
	data.Model.Normalize()
	return data.Model, nil
}
