package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/thingc24/carve/core/config"
	"github.com/thingc24/carve/core/dependency"
	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/models"
	"github.com/thingc24/carve/core/rewrite"
	"github.com/thingc24/carve/core/treesync"
	"github.com/thingc24/carve/core/walker"
)

type Mode int

const (
	// ModeExtract copies then rewrites.
	ModeExtract Mode = iota
	// ModeSync only copies.
	ModeSync
	// ModeRewrite rewrites whatever cataloged files are already in place.
	ModeRewrite
)

func (m Mode) String() string {
	switch m {
	case ModeExtract:
		return "extract"
	case ModeSync:
		return "sync"
	case ModeRewrite:
		return "rewrite"
	default:
		return "unknown"
	}
}

type Options struct {
	Workers  int
	DryRun   bool
	ShowDiff bool
}

type ServiceResult struct {
	Service string
	Records []models.CopyRecord
	Copied  int
	Skipped int
	// Rewrite is nil when the rewrite phase did not run.
	Rewrite *rewrite.Report

	// Uncataloged lists source files next to cataloged ones that were not
	// copied.
	Uncataloged []models.DiscoveredFile
	// ForeignImports are imports of other services' packages still active
	// after the rewrite.
	ForeignImports []models.ForeignImport
}

type Summary struct {
	RunID   string
	Mode    Mode
	Results []ServiceResult
}

// Failed returns the number of files whose rewrite failed.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Rewrite != nil {
			n += r.Rewrite.Failed
		}
	}
	return n
}

type Runner struct {
	cfg  *config.Config
	opts Options
	mu   sync.Mutex
}

func NewRunner(cfg *config.Config, opts Options) *Runner {
	return &Runner{cfg: cfg, opts: opts}
}

// Run processes services one after another. Every source root is checked
// before any file is touched. A synchronization error aborts the whole run.
// Concurrent calls are serialised.
func (r *Runner) Run(services []config.Service, mode Mode) (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := &Summary{RunID: uuid.NewString(), Mode: mode}
	logger.Debug("Starting %s run %s for %d services", mode, summary.RunID, len(services))

	if mode != ModeRewrite {
		for _, svc := range services {
			if err := r.checkSource(svc); err != nil {
				return summary, err
			}
		}
	}

	for _, svc := range services {
		result, err := r.runService(svc, mode)
		if result != nil {
			summary.Results = append(summary.Results, *result)
		}
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (r *Runner) checkSource(svc config.Service) error {
	src, err := r.cfg.SourceDir(svc)
	if err != nil {
		return fmt.Errorf("failed to resolve source root of %s: %w", svc.Name, err)
	}
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return &config.ConfigurationError{Service: svc.Name, Path: src}
	}
	return nil
}

func (r *Runner) runService(svc config.Service, mode Mode) (*ServiceResult, error) {
	src, err := r.cfg.SourceDir(svc)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source root of %s: %w", svc.Name, err)
	}
	dst, err := r.cfg.DestDir(svc)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination root of %s: %w", svc.Name, err)
	}
	plan, err := svc.Plan()
	if err != nil {
		return nil, fmt.Errorf("invalid rewrite plan for %s: %w", svc.Name, err)
	}

	result := &ServiceResult{Service: svc.Name}
	syncer := treesync.NewSynchronizer(src, dst)

	logger.Info("%s", strings.Repeat("=", 60))
	if mode == ModeRewrite {
		logger.Info("Checking %s files already in %s", svc.Name, dst)
		result.Records, err = syncer.Present(svc.Catalog)
	} else {
		logger.Info("Copying files from monolith to %s...", svc.Name)
		result.Records, err = syncer.Synchronize(svc.Catalog)
	}
	result.Copied, result.Skipped = models.CountOutcomes(result.Records)
	if err != nil {
		return result, fmt.Errorf("synchronization of %s failed: %w", svc.Name, err)
	}
	if mode != ModeRewrite {
		result.Uncataloged, err = walker.NewSourceWalker().Uncataloged(src, svc.Catalog)
		if err != nil {
			logger.Debug("Failed to list uncataloged files of %s: %v", svc.Name, err)
		}
	}

	if mode == ModeSync {
		return result, nil
	}
	if result.Copied == 0 {
		logger.Error("No files copied for %s. Please check paths.", svc.Name)
		return result, nil
	}

	logger.Info("Refactoring %s entities to remove cross-service dependencies...", svc.Name)
	opts := []rewrite.Option{rewrite.WithWorkers(r.opts.Workers)}
	if r.opts.DryRun {
		opts = append(opts, rewrite.WithDryRun(r.opts.ShowDiff))
	}
	engine := rewrite.NewEngine(dst, opts...)
	result.Rewrite = engine.Rewrite(plan, models.CopiedSet(result.Records))

	scanner := dependency.NewScanner(dst, r.cfg.BasePackage, svc.Packages)
	if scanner.Enabled() && !r.opts.DryRun {
		var copied []string
		for _, rec := range result.Records {
			if rec.Outcome == models.Copied {
				copied = append(copied, rec.RelativePath)
			}
		}
		result.ForeignImports, err = scanner.Scan(copied)
		if err != nil {
			logger.Warn("Import scan of %s incomplete: %v", svc.Name, err)
		}
	}
	return result, nil
}

// Log writes the per-service totals and any drift warnings. Preview diffs go
// to out.
func (s *Summary) Log(out io.Writer) {
	logger.Info("%s", strings.Repeat("=", 60))
	for _, res := range s.Results {
		if s.Mode == ModeRewrite {
			logger.Info("%s: %d cataloged files present, %d absent", res.Service, res.Copied, res.Skipped)
		} else {
			logger.Info("%s: copied %d, skipped %d", res.Service, res.Copied, res.Skipped)
		}

		for _, f := range res.Uncataloged {
			logger.Debug("Not in catalog: %s", f.RelativePath)
		}
		if n := len(res.Uncataloged); n > 0 {
			logger.Info("%s: %d source files beside cataloged ones were not copied (--verbose lists them)", res.Service, n)
		}

		rw := res.Rewrite
		if rw == nil {
			continue
		}
		verb := "refactored"
		if rw.DryRun {
			verb = "would refactor"
		}
		logger.Info("%s: %s %d, unchanged %d, failed %d, not found %d",
			res.Service, verb, rw.Refactored, rw.Unchanged, rw.Failed, rw.NotFound)
		for _, u := range rw.Unfired {
			logger.Warn("Rule never fired: %s", u)
		}
		for _, f := range res.ForeignImports {
			logger.Warn("Cross-service import left: %s", f)
		}
		for _, o := range rw.Outcomes {
			if o.Diff != "" {
				fmt.Fprint(out, o.Diff)
			}
		}
		if rw.Success() && !rw.DryRun {
			logger.Success("%s setup completed!", res.Service)
		}
	}
	logger.Debug("Run %s finished", s.RunID)
}
