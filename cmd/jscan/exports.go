package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/service"
	"github.com/spf13/cobra"
)

var (
	exportsOutputFormat string
	exportsOutputPath   string
	exportsEnv          string
)

func exportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports [path...]",
		Short: "Recover named exports from legacy-module (CommonJS) files",
		Long: `Statically determine the named exports and re-exports of legacy-module
(CommonJS-shaped) JavaScript/TypeScript files, without executing any code.

Recognizes common idioms: plain dot-assignment, module.exports reassignment,
Object.defineProperty/defineProperties/assign, TypeScript-transpiler helpers
(__exportStar/__export), bundler module-table wrappers, and UMD factories.

Examples:
  jscan exports src/index.js
  jscan exports --env production src/
  jscan exports --format json src/ > exports.json`,
		RunE: runExports,
	}

	cmd.Flags().StringVarP(&exportsOutputFormat, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().StringVarP(&exportsOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVar(&exportsEnv, "env", "development",
		"NODE_ENV sentinel used to resolve dead process.env.NODE_ENV branches")

	return cmd
}

func runExports(cmd *cobra.Command, args []string) (err error) {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	format := domain.OutputFormatText
	switch exportsOutputFormat {
	case "json":
		format = domain.OutputFormatJSON
	case "yaml":
		format = domain.OutputFormatYAML
	}

	var files []string
	for _, path := range args {
		pathFiles, err := collectJSFiles(path, nil)
		if err != nil {
			return fmt.Errorf("failed to collect files from %s: %w", path, err)
		}
		files = append(files, pathFiles...)
	}

	if len(files) == 0 {
		return fmt.Errorf("no JavaScript/TypeScript files found")
	}

	if format == domain.OutputFormatText {
		fmt.Printf("Analyzing %d files...\n", len(files))
	}

	svc := service.NewExportsService()
	req := domain.ExportsRequest{
		Paths:        files,
		OutputFormat: format,
		Environment:  exportsEnv,
	}

	ctx := context.Background()
	response, err := svc.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("exports analysis failed: %w", err)
	}

	if format == domain.OutputFormatText {
		for _, w := range response.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		for _, e := range response.Errors {
			fmt.Fprintf(os.Stderr, "Error: %s\n", e)
		}
	}

	var writer *os.File
	if exportsOutputPath != "" {
		f, createErr := os.Create(exportsOutputPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}()
		writer = f
	} else {
		writer = os.Stdout
	}

	formatter := service.NewOutputFormatter()
	if err := formatter.WriteExports(response, format, writer); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if exportsOutputPath != "" && format == domain.OutputFormatText {
		absPath, _ := filepath.Abs(exportsOutputPath)
		fmt.Printf("Output saved to: %s\n", absPath)
	}

	return nil
}
