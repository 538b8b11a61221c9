package models

import "sort"

// FileUsage is the scan result for a single source file: the set of feature
// names textually referenced in it, as a sorted slice.
type FileUsage struct {
	Path     string   `json:"path"`
	Features []string `json:"features"`
}

// InventoryStats summarizes a usage scan.
type InventoryStats struct {
	TotalFiles        int `json:"total_files"`
	FilesWithFeatures int `json:"files_with_features"`
}

// UsageInventory cross-references features declared in the manifest against
// features referenced in source text. The JSON shape is the report contract;
// the derived reconciliation lists are informational and rendered separately.
type UsageInventory struct {
	DefinedFeatures map[string][]string `json:"defined_features"`
	FeatureUsage    map[string][]string `json:"feature_usage"`
	Stats           InventoryStats      `json:"stats"`

	FeatureOrder      []string `json:"-"`
	UnusedFeatures    []string `json:"-"`
	UndefinedFeatures []string `json:"-"`
}

// DefinedOrder returns declared feature names in manifest order when known,
// falling back to lexicographic order.
func (inv *UsageInventory) DefinedOrder() []string {
	if len(inv.FeatureOrder) == len(inv.DefinedFeatures) {
		return inv.FeatureOrder
	}
	names := make([]string, 0, len(inv.DefinedFeatures))
	for name := range inv.DefinedFeatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UsedFeatures returns the referenced feature names sorted lexicographically.
func (inv *UsageInventory) UsedFeatures() []string {
	names := make([]string, 0, len(inv.FeatureUsage))
	for name := range inv.FeatureUsage {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDefined reports whether a referenced feature is declared in the manifest.
func (inv *UsageInventory) IsDefined(feature string) bool {
	_, ok := inv.DefinedFeatures[feature]
	return ok
}
