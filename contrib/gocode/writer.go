package gocode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/attrs/compiler/load"
)

// Writer writes one Go file per class into a package directory.
type Writer struct {
	dir     string
	pkg     string
	workers int

	mu      sync.Mutex
	metrics Metrics
}

// Metrics of the files written so far.
type Metrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter returns a writer generating package pkg into dir.
func NewWriter(dir, pkg string) *Writer {
	return &Writer{
		dir:     dir,
		pkg:     pkg,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a copy of the writer metrics.
func (w *Writer) Metrics() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// FileName returns the name of the file generated for a class:
// "OrderLine" is written to "order_line.go".
func FileName(class string) string {
	return inflect.Underscore(class) + ".go"
}

// Write generates the files of all schemas in parallel. Nested
// references must name classes among the schemas.
func (w *Writer) Write(ctx context.Context, schemas ...*load.Schema) error {
	// Validate the whole set before touching the directory.
	if _, err := File(w.pkg, schemas...); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("gocode: create output directory: %w", err)
	}
	names := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		names[s.Name] = true
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, s := range schemas {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(s, names)
			}
		})
	}
	return eg.Wait()
}

func (w *Writer) writeFile(s *load.Schema, names map[string]bool) error {
	f := newFile(w.pkg)
	if err := genStruct(f, s, names); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return fmt.Errorf("gocode: render %s: %w", s.Name, err)
	}
	path := filepath.Join(w.dir, FileName(s.Name))
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("gocode: format %s: %w", path, err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("gocode: write %s: %w", path, err)
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()
	return nil
}
