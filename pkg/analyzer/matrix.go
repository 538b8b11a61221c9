package analyzer

import (
	"sort"

	"github.com/featlens/featlens/pkg/models"
)

// BuildMatrix produces the dependency-to-feature matrix: one row per
// dependency sorted by name, one column per feature sorted by name.
// Dev-kind dependencies are not part of the optional-feature surface and are
// excluded entirely.
func BuildMatrix(pkg *models.Package, resolved map[string]map[string]struct{}) *models.DependencyMatrix {
	features := pkg.FeatureNames()

	deps := make([]models.Dependency, 0, len(pkg.Dependencies))
	for _, dep := range pkg.Dependencies {
		if dep.Kind == models.KindDev {
			continue
		}
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	matrix := &models.DependencyMatrix{Features: features}
	for _, dep := range deps {
		row := models.MatrixRow{
			Dependency: dep.Name,
			Cells:      make([]models.CellState, len(features)),
		}
		for i, feature := range features {
			row.Cells[i] = classifyCell(dep, resolved[feature])
		}
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}

// classifyCell decides one matrix cell. Non-optional dependencies are built
// unconditionally, so every feature gets them regardless of resolution.
func classifyCell(dep models.Dependency, featureDeps map[string]struct{}) models.CellState {
	if !dep.Optional {
		return models.CellAlwaysIncluded
	}
	if _, required := featureDeps[dep.Name]; required {
		return models.CellRequired
	}
	return models.CellOptionalExcluded
}

// FindOptimizationCandidates returns dependencies that could be made
// optional: non-optional, normal kind, and required by a strict non-empty
// subset of the declared features. UsedBy lists are sorted.
func FindOptimizationCandidates(pkg *models.Package, resolved map[string]map[string]struct{}) []models.Candidate {
	total := len(pkg.Features)

	var candidates []models.Candidate
	for _, dep := range pkg.Dependencies {
		if dep.Optional || dep.Kind != models.KindNormal {
			continue
		}

		var usedBy []string
		for feature, deps := range resolved {
			if _, ok := deps[dep.Name]; ok {
				usedBy = append(usedBy, feature)
			}
		}
		if len(usedBy) == 0 || len(usedBy) >= total {
			continue
		}

		sort.Strings(usedBy)
		candidates = append(candidates, models.Candidate{Name: dep.Name, UsedBy: usedBy})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	return candidates
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
