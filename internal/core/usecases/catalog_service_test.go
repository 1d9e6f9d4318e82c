package usecases_test

import (
	"testing"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/usecases"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
)

func TestCatalogService_Categories(t *testing.T) {
	svc := usecases.NewCatalogService(category.Default)

	cats := svc.Categories()
	if len(cats) != len(domain.CategoryKeys) {
		t.Fatalf("expected %d categories, got %d", len(domain.CategoryKeys), len(cats))
	}
	last := cats[len(cats)-1]
	if last.Key != domain.CategoryOther {
		t.Errorf("expected other last, got %s", last.Key)
	}
	if last.Tags == nil || len(last.Tags) != 0 {
		t.Errorf("expected empty tag list for other, got %v", last.Tags)
	}
	for _, c := range cats {
		if c.Style.Color == "" {
			t.Errorf("category %s has no color", c.Key)
		}
	}
}

func TestCatalogService_Classify(t *testing.T) {
	svc := usecases.NewCatalogService(category.Default.Extend(map[string][]string{"shopping": {"zay"}}))

	if got := svc.Classify("BUS_STOP").Key; got != domain.CategoryTransportation {
		t.Errorf("expected transportation, got %s", got)
	}
	if got := svc.Classify("zay").Key; got != domain.CategoryShopping {
		t.Errorf("expected shopping, got %s", got)
	}
	if got := svc.Classify("unknown_tag_xyz"); got.Key != domain.CategoryOther || got.Style.LabelEN != "Other" {
		t.Errorf("expected other, got %+v", got)
	}
}
