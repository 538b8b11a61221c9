package cargo

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml"

	"github.com/featlens/featlens/pkg/models"
)

// featureBlockRe isolates the [features] table body: everything between the
// header and the next table header or end of input.
var featureBlockRe = regexp.MustCompile(`(?s)(?:^|\n)\s*\[features\]\s*\n(.*?)(?:\n\s*\[|\z)`)

// ManifestFeatures is the result of the line-oriented feature extraction.
// Order preserves declaration order; Skipped holds lines the grammar could
// not interpret, for diagnostics.
type ManifestFeatures struct {
	Order   []string
	Tokens  map[string][]string
	Skipped []string
}

// Graph adapts the extracted features for resolution.
func (m *ManifestFeatures) Graph() map[string][]string {
	return m.Tokens
}

// ParseManifestFeatures extracts the [features] table from manifest text with
// a deliberately narrow line grammar: one `name = value` per line, where the
// value is a bracketed list of quoted tokens or a single bare value. The
// grammar tolerates anything TOML-shaped it does not understand by skipping
// the line rather than failing the parse.
func ParseManifestFeatures(content string) *ManifestFeatures {
	mf := &ManifestFeatures{Tokens: make(map[string][]string)}

	block := featureBlockRe.FindStringSubmatch(content)
	if block == nil {
		return mf
	}

	for _, line := range strings.Split(block[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			mf.Skipped = append(mf.Skipped, line)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			mf.Skipped = append(mf.Skipped, line)
			continue
		}

		var tokens []string
		switch {
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			inner := strings.TrimSpace(value[1 : len(value)-1])
			if inner != "" {
				for _, tok := range strings.Split(inner, ",") {
					tokens = append(tokens, strings.Trim(strings.TrimSpace(tok), `"`))
				}
			} else {
				tokens = []string{}
			}
		case strings.HasPrefix(value, "["):
			// Multi-line array: the line grammar cannot follow it.
			mf.Skipped = append(mf.Skipped, line)
			continue
		default:
			tokens = []string{strings.Trim(value, `"`)}
		}

		if _, dup := mf.Tokens[key]; !dup {
			mf.Order = append(mf.Order, key)
		}
		mf.Tokens[key] = tokens
	}
	return mf
}

// ParseManifestFile reads a manifest and extracts its feature table.
func ParseManifestFile(path string) (*ManifestFeatures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifestFeatures(string(data)), nil
}

var manifestDepTables = []struct {
	key  string
	kind models.DependencyKind
}{
	{"dependencies", models.KindNormal},
	{"dev-dependencies", models.KindDev},
	{"build-dependencies", models.KindBuild},
}

// ParseManifestPackage builds a full Package from manifest text alone, for
// use when cargo itself is unavailable. Unlike the metadata path this sees
// only the manifest's declarations, not the resolved dependency graph.
func ParseManifestPackage(content string) (*models.Package, error) {
	tree, err := toml.Load(content)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	pkg := &models.Package{Features: make(map[string][]string)}
	if name, ok := tree.Get("package.name").(string); ok {
		pkg.Name = name
	}

	for _, table := range manifestDepTables {
		deps, ok := tree.Get(table.key).(*toml.Tree)
		if !ok {
			continue
		}
		names := deps.Keys()
		sort.Slice(names, func(i, j int) bool {
			return deps.GetPosition(names[i]).Line < deps.GetPosition(names[j]).Line
		})
		for _, name := range names {
			dep := models.Dependency{Name: name, Kind: table.kind}
			if spec, ok := deps.Get(name).(*toml.Tree); ok {
				if optional, ok := spec.Get("optional").(bool); ok {
					dep.Optional = optional
				}
				if raw, ok := spec.Get("features").([]interface{}); ok {
					for _, f := range raw {
						if s, ok := f.(string); ok {
							dep.Features = append(dep.Features, s)
						}
					}
				}
			}
			pkg.Dependencies = append(pkg.Dependencies, dep)
		}
	}

	if features, ok := tree.Get("features").(*toml.Tree); ok {
		names := features.Keys()
		sort.Slice(names, func(i, j int) bool {
			return features.GetPosition(names[i]).Line < features.GetPosition(names[j]).Line
		})
		for _, name := range names {
			tokens := []string{}
			switch raw := features.Get(name).(type) {
			case []interface{}:
				for _, t := range raw {
					if s, ok := t.(string); ok {
						tokens = append(tokens, s)
					}
				}
			case string:
				tokens = append(tokens, raw)
			}
			pkg.Features[name] = tokens
			pkg.FeatureOrder = append(pkg.FeatureOrder, name)
		}
	}
	return pkg, nil
}

// ParseManifestPackageFile is ParseManifestPackage over a file on disk.
func ParseManifestPackageFile(path string) (*models.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifestPackage(string(data))
}
