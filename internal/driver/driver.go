// Package driver formats files on disk. It is the glue between the CLI and
// the in-memory formatter: it finds files, reads them, formats them in
// parallel and writes back the ones that changed.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

// ErrNoFiles is returned when the given paths contain nothing to format.
var ErrNoFiles = errors.New("no files to format")

// Options controls how FormatPaths treats each file.
type Options struct {
	Check      bool     // report changes without writing
	Stdout     bool     // return formatted content without writing
	Jobs       int      // parallel files; 0 means GOMAXPROCS
	Extensions []string // extensions matched when walking directories
	Format     xmlfmt.Options
}

// Result is the outcome for one file.
type Result struct {
	Path      string
	Changed   bool
	Formatted []byte // set in Stdout mode
	Err       error
}

// FormatPaths formats every file named by paths. Directories are walked for
// files with one of opts.Extensions; files named explicitly are always
// included. Per-file failures are reported in Result.Err; the returned error
// is only set when files cannot be collected or ctx is cancelled.
func FormatPaths(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := collectFiles(ctx, paths, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns one index, so no locking is needed.
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatFile(path string, opts Options) Result {
	result := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	formatted, changed, err := FormatBytes(data, opts.Format)
	if err != nil {
		result.Err = err
		return result
	}
	result.Changed = changed

	if opts.Check {
		return result
	}
	if opts.Stdout {
		result.Formatted = formatted
		return result
	}

	if changed {
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
			result.Err = err
			result.Changed = false
		}
	}
	return result
}

// FormatBytes formats one document and reports whether the output differs
// from the input.
func FormatBytes(data []byte, opts xmlfmt.Options) (formatted []byte, changed bool, err error) {
	out, err := xmlfmt.FormatWithOptions(string(data), opts)
	if err != nil {
		return nil, false, err
	}
	formatted = []byte(out)
	return formatted, !bytes.Equal(data, formatted), nil
}

// FormatReader formats everything read from r.
func FormatReader(r io.Reader, opts xmlfmt.Options) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	formatted, _, err := FormatBytes(data, opts)
	return formatted, err
}

// collectFiles expands paths into a sorted, de-duplicated list of files.
func collectFiles(ctx context.Context, paths []string, exts []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !hasExtension(path, exts) {
				return nil
			}
			if !d.Type().IsRegular() {
				log.Printf("WARN: skipping %s: not a regular file", path)
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
