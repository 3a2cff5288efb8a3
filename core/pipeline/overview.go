package pipeline

import (
	"fmt"
	"io"

	"github.com/thingc24/carve/core/config"
	"github.com/thingc24/carve/core/models"
	"github.com/thingc24/carve/core/template_engine"
	"github.com/thingc24/carve/core/treesync"
	"github.com/thingc24/carve/core/walker"
)

type FileOverview struct {
	Name    string
	Present bool
}

type GroupOverview struct {
	Dir   string
	Files []FileOverview
}

// ServiceOverview is what a run of a service would touch, without touching it.
type ServiceOverview struct {
	Name      string
	Source    string
	Dest      string
	FileCount int
	Groups    []GroupOverview
	Entries   []models.PlanEntry
	RuleCount int

	// Uncataloged is empty when the source root is missing.
	Uncataloged []models.DiscoveredFile
}

type Overview struct {
	Services []ServiceOverview
}

// Describe resolves each service's roots, compiles its rewrite plan and
// checks which cataloged files are already in the destination tree.
func Describe(cfg *config.Config, services []config.Service) (*Overview, error) {
	ov := &Overview{}
	for _, svc := range services {
		src, err := cfg.SourceDir(svc)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source root of %s: %w", svc.Name, err)
		}
		dst, err := cfg.DestDir(svc)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve destination root of %s: %w", svc.Name, err)
		}
		plan, err := svc.Plan()
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.Name, err)
		}
		records, err := treesync.NewSynchronizer(src, dst).Present(svc.Catalog)
		if err != nil {
			return nil, err
		}
		uncataloged, err := walker.NewSourceWalker().Uncataloged(src, svc.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to list sources of %s: %w", svc.Name, err)
		}
		present := models.CopiedSet(records)

		so := ServiceOverview{
			Name:      svc.Name,
			Source:    src,
			Dest:      dst,
			FileCount: svc.Catalog.Len(),
			Entries:   plan.Entries,
			RuleCount: plan.RuleCount(),

			Uncataloged: uncataloged,
		}
		for _, g := range svc.Catalog.Groups {
			group := GroupOverview{Dir: g.Dir}
			for _, f := range g.Files {
				group.Files = append(group.Files, FileOverview{
					Name:    f,
					Present: present[models.RelativePath(g.Dir, f)],
				})
			}
			so.Groups = append(so.Groups, group)
		}
		ov.Services = append(ov.Services, so)
	}
	return ov, nil
}

// Render writes ov in the plan report format.
func (ov *Overview) Render(w io.Writer) error {
	return template_engine.NewTemplateEngine().Render(template_engine.TEMPLATES.PLAN, w, ov)
}
