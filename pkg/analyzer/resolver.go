package analyzer

import "strings"

// depPrefix is the lexical marker that distinguishes a direct dependency
// reference from a feature reference in a requirement token.
const depPrefix = "dep:"

// FeatureGraph maps a feature name to its requirement tokens. A token is
// either a dependency reference ("dep:name") or the name of another feature;
// anything else is inert.
type FeatureGraph map[string][]string

// ResolveFeatures computes, for every feature in the graph, the transitive
// set of concrete dependency names it pulls in. The graph may contain cycles;
// a cycle short-circuits only the branch that re-enters it. The result is a
// pure function of the graph.
func ResolveFeatures(graph FeatureGraph) map[string]map[string]struct{} {
	resolved := make(map[string]map[string]struct{}, len(graph))
	for name := range graph {
		resolved[name] = resolveFeature(graph, name, nil, resolved)
	}
	return resolved
}

// resolveFeature walks one feature's requirement tokens depth-first. The seen
// set is scoped to the current resolution call and copied into each recursive
// branch, so sibling branches explore shared features independently. The memo
// holds only resolutions completed from a clean top-level walk; those equal
// the reachable-feature closure and are safe to splice into any later walk.
func resolveFeature(graph FeatureGraph, name string, seen map[string]struct{}, memo map[string]map[string]struct{}) map[string]struct{} {
	if _, cycle := seen[name]; cycle {
		return nil
	}
	tokens, ok := graph[name]
	if !ok {
		return nil
	}

	deps := make(map[string]struct{})
	for _, token := range tokens {
		if dep, isDep := strings.CutPrefix(token, depPrefix); isDep {
			if dep != "" {
				deps[dep] = struct{}{}
			}
			continue
		}
		if _, isFeature := graph[token]; !isFeature {
			// Neither a dependency reference nor a declared feature: the
			// graph is untrusted external data, so the token contributes
			// nothing instead of failing the resolution.
			continue
		}
		if done, ok := memo[token]; ok {
			for dep := range done {
				deps[dep] = struct{}{}
			}
			continue
		}
		branch := make(map[string]struct{}, len(seen)+1)
		for f := range seen {
			branch[f] = struct{}{}
		}
		branch[name] = struct{}{}
		for dep := range resolveFeature(graph, token, branch, memo) {
			deps[dep] = struct{}{}
		}
	}
	return deps
}

// SortedResolution converts resolved dependency sets into sorted slices for
// stable reporting.
func SortedResolution(resolved map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(resolved))
	for feature, deps := range resolved {
		out[feature] = sortedKeys(deps)
	}
	return out
}
