package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/config"
	"github.com/abhisek/drillz/internal/content"
	"github.com/abhisek/drillz/internal/engine"
	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/model"
	"github.com/abhisek/drillz/internal/store"
)

// keepSnapshots is how many model snapshots survive each save.
const keepSnapshots = 20

// runtime bundles what every command needs: configuration, a logger and an
// open store.
type runtime struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
}

// setup loads configuration and opens the store. Callers must Close it.
func setup(cmd *cobra.Command) (*runtime, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		cfg.BankPath = p
	}

	log := logger.MustNew(cfg.Log.Mode)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &runtime{cfg: cfg, log: log, store: st}, nil
}

func (r *runtime) Close() {
	r.store.Close()
	r.log.Sync()
}

func (r *runtime) bank() (*content.Bank, error) {
	if r.cfg.BankPath != "" {
		return content.LoadFile(r.cfg.BankPath)
	}
	return content.Load()
}

// engine loads the learner model, registers the bank and primes each
// category's outcome window from the answer history.
func (r *runtime) engine(ctx context.Context) (*engine.Engine, error) {
	m, err := r.store.ModelRepo().Load(ctx)
	if err != nil {
		// Load still returns a usable model.
		r.log.Warn("failed to load learner model, starting fresh", "error", err)
	}

	events := r.store.EventRepo()
	opts := r.cfg.Engine.EngineOptions()
	opts.Rand = newRand(r.cfg.Engine.Seed)
	opts.Logger = r.log
	opts.Events = events
	e := engine.New(m, opts)

	b, err := r.bank()
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	if err := e.Register(b.Snapshot()...); err != nil {
		return nil, fmt.Errorf("register questions: %w", err)
	}

	for _, c := range model.Categories() {
		outcomes, err := events.RecentOutcomes(ctx, c, r.cfg.Engine.RecentWindow)
		if err != nil {
			r.log.Warn("failed to load recent outcomes", "category", c, "error", err)
			continue
		}
		e.SeedRecent(c, outcomes)
	}
	return e, nil
}

// save persists the model and prunes old snapshots.
func (r *runtime) save(ctx context.Context, e *engine.Engine) error {
	repo := r.store.ModelRepo()
	if err := repo.Save(ctx, e.Model()); err != nil {
		return fmt.Errorf("save learner model: %w", err)
	}
	if err := repo.Prune(ctx, keepSnapshots); err != nil {
		r.log.Warn("failed to prune snapshots", "error", err)
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
