package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jscan/domain"
)

func TestNewExportsService(t *testing.T) {
	svc := NewExportsService()
	if svc == nil {
		t.Fatal("NewExportsService should not return nil")
	}
	if svc.executor == nil {
		t.Error("executor should be initialized")
	}
}

func TestExportsService_Analyze_EmptyPaths(t *testing.T) {
	svc := NewExportsService()

	resp, err := svc.Analyze(context.Background(), domain.ExportsRequest{})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if resp.Summary.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", resp.Summary.TotalFiles)
	}
	if len(resp.Files) != 0 {
		t.Errorf("Files = %v, want empty", resp.Files)
	}
}

func TestExportsService_Analyze_SingleFile(t *testing.T) {
	tempDir := t.TempDir()
	jsFile := filepath.Join(tempDir, "mod.js")
	content := `
		exports.foo = 'bar';
		module.exports.bar = 123;
	`
	if err := os.WriteFile(jsFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	svc := NewExportsService()
	resp, err := svc.Analyze(context.Background(), domain.ExportsRequest{
		Paths:       []string{jsFile},
		Environment: "development",
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if resp.Summary.TotalFiles != 1 {
		t.Fatalf("TotalFiles = %d, want 1", resp.Summary.TotalFiles)
	}
	if len(resp.Files) != 1 {
		t.Fatalf("Files = %v, want 1 entry", resp.Files)
	}
	got := resp.Files[0]
	if got.FilePath != jsFile {
		t.Errorf("FilePath = %q, want %q", got.FilePath, jsFile)
	}
	wantExports := []string{"foo", "bar"}
	if len(got.Exports) != len(wantExports) {
		t.Fatalf("Exports = %v, want %v", got.Exports, wantExports)
	}
	for i, name := range wantExports {
		if got.Exports[i] != name {
			t.Errorf("Exports[%d] = %q, want %q", i, got.Exports[i], name)
		}
	}
}

func TestExportsService_Analyze_MultipleFilesConcurrent(t *testing.T) {
	tempDir := t.TempDir()
	paths := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		name := filepath.Join(tempDir, fmt.Sprintf("%c.js", 'a'+i))
		if err := os.WriteFile(name, []byte(`exports.value = 1;`), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
		paths = append(paths, name)
	}

	svc := NewExportsService()
	resp, err := svc.Analyze(context.Background(), domain.ExportsRequest{Paths: paths})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if resp.Summary.TotalFiles != 5 {
		t.Errorf("TotalFiles = %d, want 5", resp.Summary.TotalFiles)
	}
	if len(resp.Files) != 5 {
		t.Fatalf("Files = %v, want 5 entries", resp.Files)
	}
	for i := 1; i < len(resp.Files); i++ {
		if resp.Files[i-1].FilePath >= resp.Files[i].FilePath {
			t.Errorf("Files not sorted by path: %q >= %q", resp.Files[i-1].FilePath, resp.Files[i].FilePath)
		}
	}
}

func TestExportsService_Analyze_MissingFileRecordsError(t *testing.T) {
	svc := NewExportsService()
	resp, err := svc.Analyze(context.Background(), domain.ExportsRequest{
		Paths: []string{"/nonexistent/does-not-exist.js"},
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if resp.Summary.FilesWithErrors != 1 {
		t.Errorf("FilesWithErrors = %d, want 1", resp.Summary.FilesWithErrors)
	}
	if len(resp.Errors) != 1 {
		t.Errorf("Errors = %v, want 1 entry", resp.Errors)
	}
}

func TestExportsService_AnalyzeFile(t *testing.T) {
	tempDir := t.TempDir()
	jsFile := filepath.Join(tempDir, "reexport.js")
	if err := os.WriteFile(jsFile, []byte(`module.exports = require("lib");`), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	svc := NewExportsService()
	result, err := svc.AnalyzeFile(jsFile, domain.ExportsRequest{})
	if err != nil {
		t.Fatalf("AnalyzeFile returned error: %v", err)
	}
	if len(result.Reexports) != 1 || result.Reexports[0] != "lib" {
		t.Errorf("Reexports = %v, want [lib]", result.Reexports)
	}
}
