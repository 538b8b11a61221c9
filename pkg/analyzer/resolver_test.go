package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFeaturesDirect(t *testing.T) {
	graph := FeatureGraph{
		"json": {"dep:serde", "dep:serde_json"},
		"none": {},
	}

	resolved := ResolveFeatures(graph)

	require.Len(t, resolved, 2)
	assert.Equal(t, setOf("serde", "serde_json"), resolved["json"])
	assert.Empty(t, resolved["none"])
}

func TestResolveFeaturesTransitive(t *testing.T) {
	graph := FeatureGraph{
		"full":  {"json", "compress"},
		"json":  {"dep:serde"},
		"compress": {"dep:flate2"},
	}

	resolved := ResolveFeatures(graph)

	assert.Equal(t, setOf("serde", "flate2"), resolved["full"])
	assert.Equal(t, setOf("serde"), resolved["json"])
}

func TestResolveFeaturesCycle(t *testing.T) {
	// a and b require each other; only the concrete dependency survives.
	graph := FeatureGraph{
		"a": {"b"},
		"b": {"a", "dep:y"},
	}

	resolved := ResolveFeatures(graph)

	assert.Equal(t, setOf("y"), resolved["a"])
	assert.Equal(t, setOf("y"), resolved["b"])
}

func TestResolveFeaturesPureCycle(t *testing.T) {
	graph := FeatureGraph{
		"a": {"b"},
		"b": {"a"},
	}

	resolved := ResolveFeatures(graph)

	assert.Empty(t, resolved["a"])
	assert.Empty(t, resolved["b"])
}

func TestResolveFeaturesSharedBranch(t *testing.T) {
	// Both branches reach shared; visiting it through one branch must not
	// hide it from the other.
	graph := FeatureGraph{
		"top":    {"left", "right"},
		"left":   {"shared"},
		"right":  {"shared", "dep:r"},
		"shared": {"dep:s"},
	}

	resolved := ResolveFeatures(graph)

	assert.Equal(t, setOf("s"), resolved["left"])
	assert.Equal(t, setOf("r", "s"), resolved["right"])
	assert.Equal(t, setOf("r", "s"), resolved["top"])
}

func TestResolveFeaturesUnknownToken(t *testing.T) {
	graph := FeatureGraph{
		"a": {"not-declared", "dep:x"},
	}

	resolved := ResolveFeatures(graph)

	assert.Equal(t, setOf("x"), resolved["a"])
}

func TestResolveFeaturesEmptyDepName(t *testing.T) {
	graph := FeatureGraph{
		"a": {"dep:", "dep:x"},
	}

	resolved := ResolveFeatures(graph)

	assert.Equal(t, setOf("x"), resolved["a"])
}

func TestResolveFeaturesIdempotent(t *testing.T) {
	graph := FeatureGraph{
		"full": {"json", "dep:direct"},
		"json": {"dep:serde"},
		"loop": {"full", "loop"},
	}

	first := ResolveFeatures(graph)
	second := ResolveFeatures(graph)

	assert.Equal(t, first, second)
}

func TestSortedResolution(t *testing.T) {
	resolved := map[string]map[string]struct{}{
		"a": setOf("z", "m", "a"),
		"b": {},
	}

	sorted := SortedResolution(resolved)

	assert.Equal(t, []string{"a", "m", "z"}, sorted["a"])
	assert.Empty(t, sorted["b"])
}

func setOf(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
