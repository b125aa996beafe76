// Package registry resolves named GA4 property profiles from an INI file.
// One section per property:
//
//	[marketing-site]
//	property_id = 381346600
//	credentials = /etc/growth-atlas/marketing-sa.json
package registry

import (
	"context"
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.PropertyProfile, error)
	GetProfile(ctx context.Context, name string) (domain.PropertyProfile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles from %s: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]domain.PropertyProfile, error) {
	var profiles []domain.PropertyProfile
	for _, section := range r.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		p, err := profileFromSection(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (domain.PropertyProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return domain.PropertyProfile{}, fmt.Errorf("profile %q not found", name)
	}
	return profileFromSection(section)
}

func profileFromSection(section *ini.Section) (domain.PropertyProfile, error) {
	propertyID := section.Key("property_id").String()
	if propertyID == "" {
		return domain.PropertyProfile{}, fmt.Errorf("profile %q has no property_id", section.Name())
	}
	return domain.PropertyProfile{
		Name:            section.Name(),
		PropertyID:      propertyID,
		CredentialsFile: section.Key("credentials").String(),
	}, nil
}
