package cargo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/featlens/featlens/pkg/models"
)

// ErrNoRootPackage means the metadata document named no package that is also
// a workspace member, so there is nothing to analyze.
var ErrNoRootPackage = errors.New("no root package found in cargo metadata")

// Loader obtains cargo metadata for a project.
type Loader struct {
	// Bin is the cargo executable. Empty means "cargo" from PATH.
	Bin string
	// Dir is the working directory for the invocation. Empty means the
	// current directory.
	Dir string
}

// Load runs `cargo metadata --format-version=1` and decodes the root package.
func (l *Loader) Load() (*models.Package, error) {
	bin := l.Bin
	if bin == "" {
		bin = "cargo"
	}

	cmd := exec.Command(bin, "metadata", "--format-version=1")
	cmd.Dir = l.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("running cargo metadata: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("running cargo metadata: %w", err)
	}
	return Decode(out)
}

type metadataDoc struct {
	Packages []struct {
		ID           string              `json:"id"`
		Name         string              `json:"name"`
		Features     map[string][]string `json:"features"`
		Dependencies []struct {
			Name     string   `json:"name"`
			Optional bool     `json:"optional"`
			Kind     string   `json:"kind"`
			Features []string `json:"features"`
		} `json:"dependencies"`
	} `json:"packages"`
	WorkspaceMembers []string `json:"workspace_members"`
}

// Decode validates a raw metadata document and extracts the root package: the
// first listed package whose id appears in workspace_members. cargo encodes a
// normal dependency kind as null, which decodes as the empty string here.
func Decode(data []byte) (*models.Package, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing cargo metadata: %w", err)
	}
	if err := validateMetadata(raw); err != nil {
		return nil, fmt.Errorf("invalid cargo metadata: %w", err)
	}

	var doc metadataDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing cargo metadata: %w", err)
	}

	members := make(map[string]struct{}, len(doc.WorkspaceMembers))
	for _, id := range doc.WorkspaceMembers {
		members[id] = struct{}{}
	}

	for _, p := range doc.Packages {
		if _, ok := members[p.ID]; !ok {
			continue
		}
		pkg := &models.Package{
			Name:     p.Name,
			Features: p.Features,
		}
		for _, d := range p.Dependencies {
			kind := models.DependencyKind(d.Kind)
			if kind == "" {
				kind = models.KindNormal
			}
			pkg.Dependencies = append(pkg.Dependencies, models.Dependency{
				Name:     d.Name,
				Optional: d.Optional,
				Kind:     kind,
				Features: d.Features,
			})
		}
		return pkg, nil
	}
	return nil, ErrNoRootPackage
}
