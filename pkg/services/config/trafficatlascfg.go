package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/de-tools/traffic-atlas/pkg/services/query/ga4"
)

// Registry resolves site names to GA4 settings from an INI registry file,
// one section per site.
type Registry interface {
	GetSites(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, site string) (*ga4.Config, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetSites(_ context.Context) ([]string, error) {
	var sites []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			sites = append(sites, section.Name())
		}
	}
	return sites, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, site string) (*ga4.Config, error) {
	section, err := cr.cfg.GetSection(site)
	if err != nil {
		return nil, fmt.Errorf("site %s not found", site)
	}

	cfg := &ga4.Config{
		Property:     section.Key("property").String(),
		Credentials:  section.Key("credentials").String(),
		CacheMinutes: section.Key("cache_minutes").MustInt(0),
	}
	if cfg.Property == "" {
		return nil, fmt.Errorf("site %s has no property configured", site)
	}

	return cfg, nil
}
