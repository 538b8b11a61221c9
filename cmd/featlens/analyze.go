package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run both analyses and write report files",
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
		Action: runAnalyzeCmd,
	}
}

// runAnalyzeCmd runs the dependency and inventory pipelines and writes three
// artifacts into the report directory: dependency_analysis.md,
// feature_inventory.json, and feature_inventory.md. A failure to obtain
// package metadata aborts before anything is written.
func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	root := getPath(c)

	pkg, err := loadPackage(c, cfg, root)
	if err != nil {
		return err
	}
	analysis := buildDepsAnalysis(pkg)

	inv, err := buildInventory(cfg, root, c.Bool("verbose"))
	if err != nil {
		return err
	}

	reportDir := filepath.Join(root, cfg.Output.ReportDir)
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	depsPath := filepath.Join(reportDir, "dependency_analysis.md")
	if err := writeReportFile(depsPath, func(f *os.File) error {
		writeDepsMarkdown(f, analysis)
		return nil
	}); err != nil {
		return err
	}

	jsonPath := filepath.Join(reportDir, "feature_inventory.json")
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	mdPath := filepath.Join(reportDir, "feature_inventory.md")
	if err := writeReportFile(mdPath, func(f *os.File) error {
		writeInventoryMarkdown(f, inv)
		return nil
	}); err != nil {
		return err
	}

	color.Green("Analysis complete. Reports written to %s", reportDir)
	return nil
}

func writeReportFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
