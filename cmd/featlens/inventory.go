package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/featlens/featlens/internal/cache"
	"github.com/featlens/featlens/internal/fileproc"
	"github.com/featlens/featlens/internal/output"
	"github.com/featlens/featlens/internal/progress"
	"github.com/featlens/featlens/internal/scanner"
	"github.com/featlens/featlens/pkg/analyzer"
	"github.com/featlens/featlens/pkg/cargo"
	"github.com/featlens/featlens/pkg/config"
	"github.com/featlens/featlens/pkg/models"
)

func inventoryCmd() *cli.Command {
	return &cli.Command{
		Name:      "inventory",
		Aliases:   []string{"inv", "usage"},
		Usage:     "Cross-reference declared features against source usage",
		ArgsUsage: "[path]",
		Action:    runInventoryCmd,
	}
}

func runInventoryCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	root := getPath(c)

	inv, err := buildInventory(cfg, root, c.Bool("verbose"))
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&inventoryReport{inv})
}

// buildInventory runs the usage scan pipeline. A missing or unparseable
// manifest degrades to an empty declared set; only the file walk itself can
// fail the run.
func buildInventory(cfg *config.Config, root string, verbose bool) (*models.UsageInventory, error) {
	manifest, err := cargo.ParseManifestFile(filepath.Join(root, cfg.Cargo.Manifest))
	if err != nil {
		color.Yellow("Could not read %s: %v", cfg.Cargo.Manifest, err)
		manifest = &cargo.ManifestFeatures{Tokens: map[string][]string{}}
	}
	if verbose {
		for _, line := range manifest.Skipped {
			color.Yellow("Skipped unparseable feature line: %s", line)
		}
	}

	scan := scanner.NewScanner(cfg)
	files, err := scan.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	store, err := cache.New(filepath.Join(root, cfg.Cache.Dir), cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	src := analyzer.NewSourceScanner(analyzer.WithCache(store))

	errs := &fileproc.ProcessingErrors{}
	tracker := progress.NewTracker("Scanning feature usage...", len(files))
	results := src.ScanProject(root, files, tracker.Tick, errs.Add)
	if errs.HasErrors() {
		tracker.FinishError(errs)
	} else {
		tracker.FinishSuccess()
	}

	for _, pe := range errs.Errors {
		color.Yellow("Could not read %s: %v", pe.Path, pe.Err)
	}

	return analyzer.BuildInventory(results, manifest.Tokens, manifest.Order), nil
}

// inventoryReport renders a UsageInventory. The markdown form matches the
// feature_inventory.md artifact written by the analyze command.
type inventoryReport struct {
	inv *models.UsageInventory
}

func (r *inventoryReport) RenderData() any {
	return r.inv
}

func (r *inventoryReport) RenderText(w io.Writer, colored bool) error {
	inv := r.inv

	rows := make([][]string, 0, len(inv.FeatureUsage))
	for _, feature := range inv.UsedFeatures() {
		status := "declared"
		if !inv.IsDefined(feature) {
			status = "undeclared"
			if colored {
				status = color.RedString(status)
			}
		}
		rows = append(rows, []string{
			feature,
			status,
			fmt.Sprintf("%d", len(inv.FeatureUsage[feature])),
		})
	}

	sections := []output.Renderable{
		output.NewTable(
			"Feature Flag Inventory",
			[]string{"Feature", "Status", "Files"},
			rows,
			[]string{
				fmt.Sprintf("Files: %d", inv.Stats.TotalFiles),
				fmt.Sprintf("With features: %d", inv.Stats.FilesWithFeatures),
				fmt.Sprintf("Declared: %d", len(inv.DefinedFeatures)),
			},
			nil,
		),
	}

	if len(inv.UnusedFeatures) > 0 {
		sections = append(sections, &output.Section{
			Title:   "Unused Features",
			Content: bulletList(inv.UnusedFeatures),
		})
	}
	if len(inv.UndefinedFeatures) > 0 {
		sections = append(sections, &output.Section{
			Title:   "Undefined Features",
			Content: bulletList(inv.UndefinedFeatures),
		})
	}

	report := &output.Report{Sections: sections}
	return report.RenderText(w, colored)
}

func (r *inventoryReport) RenderMarkdown(w io.Writer) error {
	writeInventoryMarkdown(w, r.inv)
	return nil
}

func bulletList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "\n"
		}
		out += "- " + item
	}
	return out
}

// writeInventoryMarkdown writes the inventory report in its canonical
// markdown layout.
func writeInventoryMarkdown(w io.Writer, inv *models.UsageInventory) {
	fmt.Fprintf(w, "# Feature Flag Inventory\n\n")

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "- Total Rust files analyzed: %d\n", inv.Stats.TotalFiles)
	fmt.Fprintf(w, "- Files with feature flags: %d\n", inv.Stats.FilesWithFeatures)
	fmt.Fprintf(w, "- Features defined in Cargo.toml: %d\n", len(inv.DefinedFeatures))
	fmt.Fprintf(w, "- Features used in codebase: %d\n\n", len(inv.FeatureUsage))

	fmt.Fprintf(w, "## Defined Features\n\n")
	for _, feature := range inv.DefinedOrder() {
		fmt.Fprintf(w, "### %s\n\n", feature)
		tokens := inv.DefinedFeatures[feature]
		if len(tokens) > 0 {
			fmt.Fprintln(w, "Dependencies:")
			for _, token := range tokens {
				fmt.Fprintf(w, "- %s\n", token)
			}
		} else {
			fmt.Fprintln(w, "No dependencies.")
		}

		if files, used := inv.FeatureUsage[feature]; used {
			fmt.Fprintf(w, "\nUsed in %d files.\n", len(files))
		} else {
			fmt.Fprintf(w, "\nNot used directly in code.\n")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Feature Usage\n\n")
	if len(inv.FeatureUsage) > 0 {
		for _, feature := range inv.UsedFeatures() {
			fmt.Fprintf(w, "### %s\n\n", feature)

			if inv.IsDefined(feature) {
				fmt.Fprintf(w, "Status: ✓ Defined in Cargo.toml\n\n")
			} else {
				fmt.Fprintf(w, "Status: ❌ Not defined in Cargo.toml\n\n")
			}

			files := inv.FeatureUsage[feature]
			fmt.Fprintf(w, "Used in %d files:\n", len(files))
			for _, file := range files {
				fmt.Fprintf(w, "- `%s`\n", file)
			}
			fmt.Fprintln(w)
		}
	} else {
		fmt.Fprintf(w, "No feature usage detected in the codebase.\n\n")
	}

	fmt.Fprintf(w, "## Recommendations\n\n")
	if len(inv.UnusedFeatures) > 0 {
		fmt.Fprintf(w, "### Unused Features\n\n")
		fmt.Fprintf(w, "The following features are defined but not directly used in code (they might be used indirectly through dependencies):\n\n")
		for _, feature := range inv.UnusedFeatures {
			fmt.Fprintf(w, "- `%s`\n", feature)
		}
		fmt.Fprintln(w)
	}
	if len(inv.UndefinedFeatures) > 0 {
		fmt.Fprintf(w, "### Undefined Features\n\n")
		fmt.Fprintf(w, "The following features are used in code but not defined in Cargo.toml:\n\n")
		for _, feature := range inv.UndefinedFeatures {
			fmt.Fprintf(w, "- `%s`\n", feature)
		}
		fmt.Fprintln(w)
	}
}
