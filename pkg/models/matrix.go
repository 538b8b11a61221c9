package models

// CellState classifies one cell of the dependency-to-feature matrix.
type CellState string

const (
	// CellRequired: the feature's resolved set pulls the dependency in.
	CellRequired CellState = "required"
	// CellOptionalExcluded: the dependency is optional and this feature
	// does not pull it in.
	CellOptionalExcluded CellState = "optional-excluded"
	// CellAlwaysIncluded: the dependency is non-optional, so every feature
	// gets it regardless of resolution.
	CellAlwaysIncluded CellState = "always-included"
)

// Symbol returns the report glyph for a cell.
func (c CellState) Symbol() string {
	switch c {
	case CellRequired:
		return "✅"
	case CellOptionalExcluded:
		return "❌"
	case CellAlwaysIncluded:
		return "⚪"
	}
	return "?"
}

// MatrixRow is one dependency row of the matrix.
type MatrixRow struct {
	Dependency string      `json:"dependency"`
	Cells      []CellState `json:"cells"`
}

// DependencyMatrix maps dependencies (rows, sorted by name) against features
// (columns, sorted by name).
type DependencyMatrix struct {
	Features []string    `json:"features"`
	Rows     []MatrixRow `json:"rows"`
}

// MatrixLegend describes the cell symbols, in report order.
var MatrixLegend = []string{
	"✅: Required by feature",
	"❌: Optional dependency not included in feature",
	"⚪: Always included (non-optional dependency)",
}

// Candidate is a dependency that could be made optional: non-optional,
// normal kind, and required by a strict non-empty subset of features.
type Candidate struct {
	Name   string   `json:"name"`
	UsedBy []string `json:"used_by"`
}

// DepsAnalysis is the complete result of the dependency pipeline.
type DepsAnalysis struct {
	Package    string              `json:"package"`
	Resolved   map[string][]string `json:"resolved_dependencies"`
	Matrix     *DependencyMatrix   `json:"matrix"`
	Candidates []Candidate         `json:"optimization_candidates"`
}
