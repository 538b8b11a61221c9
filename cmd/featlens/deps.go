package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/featlens/featlens/internal/output"
	"github.com/featlens/featlens/internal/progress"
	"github.com/featlens/featlens/pkg/analyzer"
	"github.com/featlens/featlens/pkg/cargo"
	"github.com/featlens/featlens/pkg/config"
	"github.com/featlens/featlens/pkg/models"
)

func depsCmd() *cli.Command {
	return &cli.Command{
		Name:      "deps",
		Aliases:   []string{"matrix"},
		Usage:     "Map dependencies to the features that pull them in",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest-only",
				Usage: "Parse Cargo.toml directly instead of invoking cargo",
			},
			&cli.StringFlag{
				Name:  "metadata-file",
				Usage: "Read cargo metadata JSON from a file instead of invoking cargo",
			},
		},
		Action: runDepsCmd,
	}
}

func runDepsCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	pkg, err := loadPackage(c, cfg, getPath(c))
	if err != nil {
		return err
	}

	analysis := buildDepsAnalysis(pkg)

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&depsReport{analysis})
}

// loadPackage obtains the package model from one of three sources, in
// priority order: a metadata JSON file, the manifest alone, or cargo itself.
func loadPackage(c *cli.Context, cfg *config.Config, root string) (*models.Package, error) {
	if path := c.String("metadata-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading metadata file: %w", err)
		}
		return cargo.Decode(data)
	}

	if c.Bool("manifest-only") {
		return cargo.ParseManifestPackageFile(filepath.Join(root, cfg.Cargo.Manifest))
	}

	loader := &cargo.Loader{Bin: cfg.Cargo.Bin, Dir: root}
	spin := progress.NewSpinner("Running cargo metadata...")
	pkg, err := loader.Load()
	if err != nil {
		spin.FinishError(err)
		return nil, err
	}
	spin.FinishSuccess()
	return pkg, nil
}

func buildDepsAnalysis(pkg *models.Package) *models.DepsAnalysis {
	resolved := analyzer.ResolveFeatures(analyzer.FeatureGraph(pkg.Features))
	return &models.DepsAnalysis{
		Package:    pkg.Name,
		Resolved:   analyzer.SortedResolution(resolved),
		Matrix:     analyzer.BuildMatrix(pkg, resolved),
		Candidates: analyzer.FindOptimizationCandidates(pkg, resolved),
	}
}

// depsReport renders a DepsAnalysis. The markdown form matches the layout of
// the dependency_analysis.md artifact written by the analyze command.
type depsReport struct {
	analysis *models.DepsAnalysis
}

func (r *depsReport) RenderData() any {
	return r.analysis
}

func (r *depsReport) RenderText(w io.Writer, colored bool) error {
	matrix := r.analysis.Matrix

	headers := append([]string{"Dependency"}, matrix.Features...)
	rows := make([][]string, 0, len(matrix.Rows))
	for _, row := range matrix.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.Dependency)
		for _, state := range row.Cells {
			cells = append(cells, state.Symbol())
		}
		rows = append(rows, cells)
	}

	report := &output.Report{
		Sections: []output.Renderable{
			output.NewTable("Dependency to Feature Matrix", headers, rows, nil, nil),
			&output.Section{
				Title:   "Legend",
				Content: "- " + strings.Join(models.MatrixLegend, "\n- "),
			},
			&output.Section{
				Title:   "Optimization Candidates",
				Content: candidateLines(r.analysis.Candidates),
			},
		},
	}
	return report.RenderText(w, colored)
}

func (r *depsReport) RenderMarkdown(w io.Writer) error {
	writeDepsMarkdown(w, r.analysis)
	return nil
}

func candidateLines(candidates []models.Candidate) string {
	if len(candidates) == 0 {
		return "No dependencies could be made optional."
	}
	var b strings.Builder
	b.WriteString("The following dependencies could be made optional:\n")
	for _, cand := range candidates {
		fmt.Fprintf(&b, "- %s: used by %s\n", cand.Name, strings.Join(cand.UsedBy, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeDepsMarkdown writes the dependency matrix report in its canonical
// markdown layout.
func writeDepsMarkdown(w io.Writer, analysis *models.DepsAnalysis) {
	matrix := analysis.Matrix

	fmt.Fprintln(w, "# Dependency to Feature Matrix")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "| Dependency | %s |\n", strings.Join(matrix.Features, " | "))
	fmt.Fprintf(w, "|%s|%s\n", strings.Repeat("-", 20), strings.Repeat(strings.Repeat("-", 12)+"|", len(matrix.Features)))

	for _, row := range matrix.Rows {
		fmt.Fprintf(w, "| %s ", row.Dependency)
		for _, state := range row.Cells {
			fmt.Fprintf(w, "| %s ", state.Symbol())
		}
		fmt.Fprintln(w, "|")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Legend:")
	for _, line := range models.MatrixLegend {
		fmt.Fprintf(w, "- %s\n", line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "# Optimization Candidates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The following dependencies could be made optional:")
	fmt.Fprintln(w)
	for _, cand := range analysis.Candidates {
		fmt.Fprintf(w, "- **%s**: Used by %s\n", cand.Name, strings.Join(cand.UsedBy, ", "))
	}
}
