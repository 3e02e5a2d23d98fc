package config

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// SourceProfile describes where one set of source datasets lives.
type SourceProfile struct {
	Name    string
	Type    string
	Options map[string]string
}

func (p SourceProfile) Get(key string) string {
	return p.Options[key]
}

func (p SourceProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.Name)
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]SourceProfile, error)
	GetProfile(ctx context.Context, name string) (*SourceProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// NewRegistry loads source profiles from an INI file, one section per profile:
//
//	[clinic]
//	type = xlsx
//	path = dados_ficticios_rentabilidade.xlsx
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]SourceProfile, error) {
	var profiles []SourceProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, toProfile(section))
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*SourceProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	profile := toProfile(section)
	if profile.Type == "" {
		return nil, fmt.Errorf("profile %s has no type", name)
	}
	return &profile, nil
}

func toProfile(section *ini.Section) SourceProfile {
	options := section.KeysHash()
	return SourceProfile{
		Name:    section.Name(),
		Type:    strings.ToLower(options["type"]),
		Options: options,
	}
}
