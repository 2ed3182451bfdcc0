package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ludo-technologies/jscan/domain"
	"github.com/ludo-technologies/jscan/internal/analyzer"
	"github.com/ludo-technologies/jscan/internal/parser"
	"github.com/ludo-technologies/jscan/internal/version"
)

// ExportsServiceImpl recovers the named-export surface of legacy
// (CommonJS-shaped) modules via static partial evaluation.
type ExportsServiceImpl struct {
	executor domain.ParallelExecutor
}

// NewExportsService creates a new exports service implementation. Files are
// analyzed concurrently, bounded by a ParallelExecutor (runtime.NumCPU()
// workers by default), since each file's analyzer frame is independent.
func NewExportsService() *ExportsServiceImpl {
	return &ExportsServiceImpl{executor: NewParallelExecutor()}
}

// fileExportsTask adapts a single-file export analysis into an
// ExecutableTask so it can run under the shared ParallelExecutor. Each task
// owns a distinct slot of the result/error slices, so concurrent tasks never
// contend on the same memory.
type fileExportsTask struct {
	svc      *ExportsServiceImpl
	filePath string
	req      domain.ExportsRequest
	result   **domain.FileExports
	fileErr  *error
}

func (t *fileExportsTask) Name() string    { return t.filePath }
func (t *fileExportsTask) IsEnabled() bool { return true }

func (t *fileExportsTask) Execute(_ context.Context) (interface{}, error) {
	result, err := t.svc.analyzeFile(t.filePath, t.req)
	if err != nil {
		*t.fileErr = err
		return nil, err
	}
	*t.result = result
	return result, nil
}

// Analyze runs export analysis across every requested file, fanning the
// per-file work out across the configured executor.
func (s *ExportsServiceImpl) Analyze(ctx context.Context, req domain.ExportsRequest) (*domain.ExportsResponse, error) {
	results := make([]*domain.FileExports, len(req.Paths))
	fileErrs := make([]error, len(req.Paths))

	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, filePath := range req.Paths {
		tasks[i] = &fileExportsTask{
			svc:      s,
			filePath: filePath,
			req:      req,
			result:   &results[i],
			fileErr:  &fileErrs[i],
		}
	}

	if err := s.executor.Execute(ctx, tasks); err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("exports analysis cancelled: %w", ctx.Err())
	}

	var files []domain.FileExports
	var warnings []string
	var errors []string
	filesProcessed := 0

	for i, filePath := range req.Paths {
		if fileErrs[i] != nil {
			errors = append(errors, fmt.Sprintf("[%s] %v", filePath, fileErrs[i]))
			continue
		}
		result := results[i]
		filesProcessed++
		if len(result.Exports) == 0 && len(result.Reexports) == 0 {
			warnings = append(warnings, fmt.Sprintf("[%s] No exports recovered", filePath))
		}
		files = append(files, *result)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })

	summary := domain.ExportsSummary{
		TotalFiles:      filesProcessed,
		FilesWithErrors: len(errors),
	}
	for _, f := range files {
		summary.TotalNames += len(f.Exports)
		summary.TotalReexports += len(f.Reexports)
	}

	return &domain.ExportsResponse{
		Files:       files,
		Summary:     summary,
		Warnings:    warnings,
		Errors:      errors,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Config: map[string]interface{}{
			"environment": req.Environment,
			"recursive":   req.Recursive,
		},
	}, nil
}

// AnalyzeFile analyzes a single file and returns its recovered export
// surface.
func (s *ExportsServiceImpl) AnalyzeFile(filePath string, req domain.ExportsRequest) (*domain.FileExports, error) {
	return s.analyzeFile(filePath, req)
}

func (s *ExportsServiceImpl) analyzeFile(filePath string, req domain.ExportsRequest) (*domain.FileExports, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ast, err := parser.ParseForLanguage(filePath, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	env := req.Environment
	if env == "" {
		env = "development"
	}

	result := analyzer.AnalyzeExports(ast, analyzer.ExportsOptions{Environment: env})

	return &domain.FileExports{
		FilePath:  filePath,
		Exports:   result.Exports,
		Reexports: result.Reexports,
	}, nil
}
