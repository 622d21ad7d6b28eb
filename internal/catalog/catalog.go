// Package catalog enumerates the exclusive add-on resources a purchase may
// claim. Each resource is sold at most once; availability is recomputed by
// the reservation path on every call because the store offers no holds.
package catalog

import (
	"context"
	"sort"

	"github.com/strahovfest/vstupenky-backend/pkg/config"
)

type Resource struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Service lists the currently offerable resources.
type Service interface {
	Resources(ctx context.Context) ([]Resource, error)
}

type configCatalog struct {
	resources []Resource
}

// NewFromConfig builds a catalog from the configured name:price pairs.
func NewFromConfig(cfg config.CatalogConfig) Service {
	resources := make([]Resource, 0, len(cfg.Resources))
	for name, price := range cfg.Resources {
		resources = append(resources, Resource{Name: name, Price: price})
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].Name < resources[j].Name })
	return &configCatalog{resources: resources}
}

func (c *configCatalog) Resources(ctx context.Context) ([]Resource, error) {
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out, nil
}
