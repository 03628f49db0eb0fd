// Package differ runs a compatibility comparison between two configuration
// sources and aggregates the divergences it finds per file.
package differ

import (
	"context"
	"fmt"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
	"github.com/wonderfulspam/lintcompat/pkg/targets"
)

// Source supplies lint targets and per-file effective configurations. Both a
// live lint engine and a stored snapshot satisfy it.
type Source interface {
	Targets(ctx context.Context) ([]string, error)
	EffectiveConfig(ctx context.Context, path string) (*effective.Config, error)
}

// Representatives is implemented by sources that only hold the configuration
// of some of their targets. A run compares just those paths; nil means all.
type Representatives interface {
	Representatives() []string
}

// Engine compares the configuration behind Old with the one behind New.
type Engine struct {
	Old Source
	New Source
}

// Run compares target lists first and stops there when they differ. It then
// compares every target's effective configuration, old side first, one file at
// a time. Any error aborts the run and no partial result is returned.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	log := logging.FromContext(ctx)

	oldTargets, err := e.Old.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing old targets: %w", err)
	}
	newTargets, err := e.New.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing new targets: %w", err)
	}

	result := &Result{Targets: targets.Compute(oldTargets, newTargets)}
	if !result.Targets.Empty() {
		log.Debug().
			Int("added", len(result.Targets.Added)).
			Int("removed", len(result.Targets.Removed)).
			Msg("lint targets differ, skipping per-file comparison")
		result.Summary = generateSummary(result)
		return result, nil
	}

	compared := targets.Sorted(oldTargets)
	if r, ok := e.Old.(Representatives); ok {
		if paths := r.Representatives(); paths != nil {
			compared = targets.Sorted(paths)
			log.Debug().Int("representatives", len(compared)).Msg("old side holds representatives only")
		}
	}

	agg := NewAggregator()
	for _, path := range compared {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		diff, err := e.compareFile(ctx, path)
		if err != nil {
			return nil, err
		}
		agg.Record(path, diff)
		result.Compared++

		log.Debug().Str("file", path).Bool("equal", diff.Equal()).Msg("compared effective config")
	}

	groups, err := agg.Dedup()
	if err != nil {
		return nil, err
	}
	result.Groups = groups
	result.Summary = generateSummary(result)
	return result, nil
}

func (e *Engine) compareFile(ctx context.Context, path string) (*effective.Diff, error) {
	oldCfg, err := e.Old.EffectiveConfig(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("old config for %s: %w", path, err)
	}
	newCfg, err := e.New.EffectiveConfig(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("new config for %s: %w", path, err)
	}

	diff, err := effective.Compare(oldCfg, newCfg)
	if err != nil {
		return nil, fmt.Errorf("comparing %s: %w", path, err)
	}
	return diff, nil
}
