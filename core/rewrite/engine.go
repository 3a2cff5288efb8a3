package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thingc24/carve/core/diff"
	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/models"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	destRoot string
	workers  int
	dryRun   bool
	showDiff bool
}

type Option func(*Engine)

// WithWorkers lets up to n files be rewritten at once. Rule order inside a
// file is unaffected.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithDryRun computes outcomes without writing. With showDiff each changed
// outcome carries a rendered diff.
func WithDryRun(showDiff bool) Option {
	return func(e *Engine) {
		e.dryRun = true
		e.showDiff = showDiff
	}
}

func NewEngine(destRoot string, opts ...Option) *Engine {
	e := &Engine{destRoot: destRoot, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Report struct {
	Outcomes   []models.RewriteOutcome
	Refactored int
	Unchanged  int
	Failed     int
	NotFound   int
	Unfired    []models.UnfiredRule
	DryRun     bool
}

// Rewrite applies plan to the files in copied. Outcomes come back in plan
// order whatever the worker count.
func (e *Engine) Rewrite(plan models.RewritePlan, copied map[string]bool) *Report {
	outcomes := make([]models.RewriteOutcome, len(plan.Entries))

	if e.workers <= 1 {
		for i, entry := range plan.Entries {
			outcomes[i] = e.rewriteEntry(entry, copied)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i, entry := range plan.Entries {
			i, entry := i, entry
			g.Go(func() error {
				outcomes[i] = e.rewriteEntry(entry, copied)
				return nil
			})
		}
		_ = g.Wait()
	}

	report := &Report{Outcomes: outcomes, DryRun: e.dryRun}
	for i, o := range outcomes {
		entry := plan.Entries[i]
		switch {
		case o.Skipped:
			report.NotFound++
			logger.Debug("Not found: %s", o.Target)
		case o.Err != nil:
			report.Failed++
			logger.Error("Failed to refactor %s: %v", o.Target, o.Err)
		case o.Changed:
			report.Refactored++
			if e.dryRun {
				logger.Info("Would refactor: %s (%d rules)", o.Target, o.RulesApplied)
			} else {
				logger.Success("Refactored: %s", o.Target)
			}
		default:
			report.Unchanged++
			logger.Debug("Unchanged: %s", o.Target)
		}
		for _, idx := range o.Unfired {
			report.Unfired = append(report.Unfired, models.UnfiredRule{
				Target: o.Target,
				Index:  idx,
				Label:  entry.Rules[idx].Label,
			})
		}
	}
	return report
}

func (e *Engine) rewriteEntry(entry models.PlanEntry, copied map[string]bool) models.RewriteOutcome {
	outcome := models.RewriteOutcome{Target: entry.Target}
	if !copied[entry.Target] {
		outcome.Skipped = true
		return outcome
	}

	path := filepath.Join(e.destRoot, filepath.FromSlash(entry.Target))
	info, err := os.Stat(path)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to stat %s: %w", path, err)
		return outcome
	}
	if info.IsDir() {
		outcome.Err = fmt.Errorf("%s is a directory", path)
		return outcome
	}

	src, err := os.ReadFile(path)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return outcome
	}

	before := string(src)
	after, fired := Apply(before, entry.Rules)
	outcome.Fired = fired
	for i, f := range fired {
		if f {
			outcome.RulesApplied++
			continue
		}
		// An empty replacement leaves no trace to show the rule already ran.
		if r := entry.Rules[i].Replace; r == "" || !strings.Contains(after, r) {
			outcome.Unfired = append(outcome.Unfired, i)
		}
	}

	if after == before {
		return outcome
	}
	outcome.Changed = true

	if e.showDiff {
		outcome.Diff = diff.Render(entry.Target, before, after)
	}
	if e.dryRun {
		return outcome
	}

	if err := os.WriteFile(path, []byte(after), info.Mode().Perm()); err != nil {
		outcome.Err = fmt.Errorf("failed to write %s: %w", path, err)
	}
	return outcome
}

// Success reports whether every processed file was read and written.
func (r *Report) Success() bool {
	return r.Failed == 0
}
