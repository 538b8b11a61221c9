package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featlens/featlens/pkg/models"
)

func TestBuildInventory(t *testing.T) {
	results := []models.FileUsage{
		{Path: "src/z.rs", Features: []string{"alpha", "gamma"}},
		{Path: "src/a.rs", Features: []string{"alpha"}},
		{Path: "src/plain.rs", Features: nil},
	}
	defined := map[string][]string{
		"alpha": {"dep:a"},
		"beta":  {},
	}

	inv := BuildInventory(results, defined, []string{"alpha", "beta"})

	assert.Equal(t, 3, inv.Stats.TotalFiles)
	assert.Equal(t, 2, inv.Stats.FilesWithFeatures)

	// Usage lists are sorted by path.
	assert.Equal(t, []string{"src/a.rs", "src/z.rs"}, inv.FeatureUsage["alpha"])
	assert.Equal(t, []string{"src/z.rs"}, inv.FeatureUsage["gamma"])

	// beta is declared but never referenced; gamma is referenced but never
	// declared.
	assert.Equal(t, []string{"beta"}, inv.UnusedFeatures)
	assert.Equal(t, []string{"gamma"}, inv.UndefinedFeatures)
}

func TestBuildInventoryDeduplicatesFiles(t *testing.T) {
	results := []models.FileUsage{
		{Path: "src/lib.rs", Features: []string{"x"}},
		{Path: "src/lib.rs", Features: []string{"x"}},
	}

	inv := BuildInventory(results, map[string][]string{}, nil)

	assert.Equal(t, []string{"src/lib.rs"}, inv.FeatureUsage["x"])
}

func TestBuildInventoryEmpty(t *testing.T) {
	inv := BuildInventory(nil, map[string][]string{}, nil)

	assert.Equal(t, 0, inv.Stats.TotalFiles)
	assert.Equal(t, 0, inv.Stats.FilesWithFeatures)
	assert.Empty(t, inv.FeatureUsage)
	assert.Empty(t, inv.UnusedFeatures)
	assert.Empty(t, inv.UndefinedFeatures)
}

func TestBuildInventoryDeclaredOrder(t *testing.T) {
	defined := map[string][]string{
		"zeta":  {},
		"alpha": {},
		"mid":   {},
	}

	inv := BuildInventory(nil, defined, []string{"zeta", "alpha", "mid"})

	// Unused features keep manifest declaration order.
	require.Equal(t, []string{"zeta", "alpha", "mid"}, inv.UnusedFeatures)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, inv.DefinedOrder())
}

func TestDefinedOrderFallback(t *testing.T) {
	inv := &models.UsageInventory{
		DefinedFeatures: map[string][]string{"b": {}, "a": {}},
	}

	// Without a recorded order the names fall back to sorted.
	assert.Equal(t, []string{"a", "b"}, inv.DefinedOrder())
}
