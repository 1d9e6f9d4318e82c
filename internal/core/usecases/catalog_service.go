package usecases

import (
	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
)

// CategoryInfo describes one category for legends and filters.
type CategoryInfo struct {
	Key   domain.CategoryKey   `json:"key"`
	Style domain.CategoryStyle `json:"style"`
	Tags  []string             `json:"tags"`
}

// CatalogService exposes the category taxonomy.
type CatalogService struct {
	taxonomy category.Taxonomy
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(t category.Taxonomy) *CatalogService {
	return &CatalogService{taxonomy: t}
}

// Categories lists every category in display order, other last.
func (s *CatalogService) Categories() []CategoryInfo {
	tags := make(map[domain.CategoryKey][]string)
	for _, b := range s.taxonomy.Buckets() {
		tags[b.Key] = b.Tags
	}
	out := make([]CategoryInfo, 0, len(domain.CategoryKeys))
	for _, k := range domain.CategoryKeys {
		t := tags[k]
		if t == nil {
			t = []string{}
		}
		out = append(out, CategoryInfo{Key: k, Style: k.Style(), Tags: t})
	}
	return out
}

// Classify maps a raw type tag to its category.
func (s *CatalogService) Classify(raw string) CategoryInfo {
	k := s.taxonomy.Classify(raw)
	return CategoryInfo{Key: k, Style: k.Style(), Tags: []string{}}
}
