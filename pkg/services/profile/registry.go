package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"
)

// Profile binds a CLI profile name to a business and the store holding its
// ledger.
type Profile struct {
	Name        string
	BusinessID  uuid.UUID
	StoreDriver string
	DuckDBPath  string
	PostgresDSN string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
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

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	raw := section.Key("business_id").String()
	businessID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("profile %s: invalid business_id %q: %w", name, raw, err)
	}

	return &Profile{
		Name:        name,
		BusinessID:  businessID,
		StoreDriver: section.Key("store_driver").String(),
		DuckDBPath:  section.Key("duckdb_path").String(),
		PostgresDSN: section.Key("postgres_dsn").String(),
	}, nil
}
