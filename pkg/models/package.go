package models

import "sort"

// DependencyKind classifies a dependency's role in the manifest.
type DependencyKind string

const (
	KindNormal DependencyKind = "normal"
	KindDev    DependencyKind = "dev"
	KindBuild  DependencyKind = "build"
)

// Dependency is a single dependency entry of the package under analysis.
// Features holds the features requested on the dependency itself; it plays
// no part in resolution but is carried through for reporting.
type Dependency struct {
	Name     string         `json:"name"`
	Optional bool           `json:"optional"`
	Kind     DependencyKind `json:"kind"`
	Features []string       `json:"features,omitempty"`
}

// Package is the normalized description of the root package: its declared
// features (name -> requirement tokens) and its dependency list.
type Package struct {
	Name         string              `json:"name"`
	Features     map[string][]string `json:"features"`
	Dependencies []Dependency        `json:"dependencies"`

	// FeatureOrder preserves declaration order when the source provides one
	// (manifest text does, structured metadata does not).
	FeatureOrder []string `json:"-"`
}

// FeatureNames returns all declared feature names sorted lexicographically.
func (p *Package) FeatureNames() []string {
	names := make([]string, 0, len(p.Features))
	for name := range p.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OrderedFeatureNames returns feature names in declaration order when known,
// falling back to lexicographic order.
func (p *Package) OrderedFeatureNames() []string {
	if len(p.FeatureOrder) == len(p.Features) {
		return p.FeatureOrder
	}
	return p.FeatureNames()
}

// Dependency returns the dependency with the given name, or nil.
func (p *Package) Dependency(name string) *Dependency {
	for i := range p.Dependencies {
		if p.Dependencies[i].Name == name {
			return &p.Dependencies[i]
		}
	}
	return nil
}
