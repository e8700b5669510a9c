package site

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/services/config"
	"github.com/de-tools/traffic-atlas/pkg/services/query"
	"github.com/de-tools/traffic-atlas/pkg/services/query/ga4"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

type Explorer interface {
	ListSites(ctx context.Context) ([]domain.Site, error)
	GetReportBuilder(ctx context.Context, site domain.Site) (*reports.Builder, error)
}

type siteExplorer struct {
	registry    config.Registry
	newExecutor func(ctx context.Context, cfg *ga4.Config) (query.Executor, error)

	mu       sync.Mutex
	builders map[string]*reports.Builder
}

func NewExplorer(registry config.Registry) Explorer {
	return &siteExplorer{
		registry:    registry,
		newExecutor: ga4.NewExecutor,
		builders:    make(map[string]*reports.Builder),
	}
}

func (s *siteExplorer) ListSites(ctx context.Context) ([]domain.Site, error) {
	names, err := s.registry.GetSites(ctx)
	if err != nil {
		return nil, err
	}
	var sites []domain.Site
	for _, name := range names {
		sites = append(sites, domain.Site{Name: name})
	}
	return sites, nil
}

// GetReportBuilder returns the report builder for a registered site,
// constructing it on first use. The same builder, and the cached executor
// behind it, is shared by every later call for that site.
func (s *siteExplorer) GetReportBuilder(ctx context.Context, site domain.Site) (*reports.Builder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if builder, ok := s.builders[site.Name]; ok {
		return builder, nil
	}

	cfg, err := s.registry.GetConfig(ctx, site.Name)
	if err != nil {
		return nil, err
	}

	executor, err := s.newExecutor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cached := query.NewCachedExecutor(executor, time.Duration(cfg.CacheMinutes)*time.Minute)
	builder := reports.NewBuilder(cached, cfg.Property)
	s.builders[site.Name] = builder

	return builder, nil
}
