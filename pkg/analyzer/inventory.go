package analyzer

import (
	"sort"

	"github.com/featlens/featlens/pkg/models"
)

// BuildInventory merges per-file scan results with the manifest's declared
// features. Every scanned file counts toward TotalFiles whether or not it
// references a feature. The derived reconciliation lists keep declared
// features in manifest order and undeclared references in sorted order.
func BuildInventory(results []models.FileUsage, defined map[string][]string, order []string) *models.UsageInventory {
	usage := make(map[string][]string)
	withFeatures := 0
	for _, file := range results {
		if len(file.Features) > 0 {
			withFeatures++
		}
		for _, feature := range file.Features {
			usage[feature] = append(usage[feature], file.Path)
		}
	}
	for feature, files := range usage {
		sort.Strings(files)
		usage[feature] = dedupeSorted(files)
	}

	inv := &models.UsageInventory{
		DefinedFeatures: defined,
		FeatureUsage:    usage,
		FeatureOrder:    order,
		Stats: models.InventoryStats{
			TotalFiles:        len(results),
			FilesWithFeatures: withFeatures,
		},
	}

	for _, feature := range inv.DefinedOrder() {
		if _, used := usage[feature]; !used {
			inv.UnusedFeatures = append(inv.UnusedFeatures, feature)
		}
	}
	for _, feature := range inv.UsedFeatures() {
		if !inv.IsDefined(feature) {
			inv.UndefinedFeatures = append(inv.UndefinedFeatures, feature)
		}
	}
	return inv
}

func dedupeSorted(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
