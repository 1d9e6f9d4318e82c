package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.CategoryKey
	}{
		{"BUS_STOP", domain.CategoryTransportation},
		{"  hospital ", domain.CategoryHealthcare},
		{"Pagoda", domain.CategoryReligious},
		{"university", domain.CategoryEducation},
		{"police", domain.CategoryGovernment},
		{"tea_shop", domain.CategoryFoodDrink},
		{"market", domain.CategoryShopping},
		{"park", domain.CategoryRecreation},
		{"", domain.CategoryOther},
		{"   ", domain.CategoryOther},
		{"unknown_tag_xyz", domain.CategoryOther},
		{"bus stop", domain.CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, category.Classify(tt.raw), "raw %q", tt.raw)
	}
}

func TestDefault_TagsAreDisjoint(t *testing.T) {
	seen := map[string]domain.CategoryKey{}
	for _, b := range category.Default.Buckets() {
		for _, tag := range b.Tags {
			prev, dup := seen[tag]
			assert.False(t, dup, "tag %q in %s and %s", tag, prev, b.Key)
			seen[tag] = b.Key
		}
	}
	assert.Greater(t, len(seen), 50)
}

func TestDefault_CoversEveryNamedBucket(t *testing.T) {
	got := map[domain.CategoryKey]bool{}
	for _, b := range category.Default.Buckets() {
		got[b.Key] = true
		assert.NotEmpty(t, b.Tags)
	}
	for _, k := range domain.CategoryKeys {
		if k == domain.CategoryOther {
			assert.False(t, got[k])
			continue
		}
		assert.True(t, got[k], "bucket %s missing", k)
	}
}

func TestNew_FirstDeclaredBucketWins(t *testing.T) {
	tax := category.New([]category.Bucket{
		{Key: domain.CategoryRecreation, Tags: []string{"hotel"}},
		{Key: domain.CategoryFoodDrink, Tags: []string{"HOTEL", "cafe"}},
		{Key: domain.CategoryOther, Tags: []string{"ignored"}},
		{Key: "bogus", Tags: []string{"x"}},
	})
	assert.Equal(t, domain.CategoryRecreation, tax.Classify("hotel"))
	assert.Equal(t, domain.CategoryFoodDrink, tax.Classify("cafe"))
	assert.Equal(t, domain.CategoryOther, tax.Classify("ignored"))
	assert.Len(t, tax.Buckets(), 2)
}

func TestExtend(t *testing.T) {
	ext := category.Default.Extend(map[string][]string{
		"religious":  {"Kyaung"},
		"food_drink": {"pagoda"},
		"nonsense":   {"whatever"},
	})
	assert.Equal(t, domain.CategoryReligious, ext.Classify("kyaung"))
	assert.Equal(t, domain.CategoryReligious, ext.Classify("pagoda"))
	assert.Equal(t, domain.CategoryOther, ext.Classify("whatever"))

	// Default is untouched.
	assert.Equal(t, domain.CategoryOther, category.Classify("kyaung"))
}

func TestZeroTaxonomy(t *testing.T) {
	var tax category.Taxonomy
	require.NotPanics(t, func() { tax.Classify("hospital") })
	assert.Equal(t, domain.CategoryOther, tax.Classify("hospital"))
}
