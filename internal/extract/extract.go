// Package extract runs the extraction pipeline over a note collection:
// per-note parsing fans out across workers, the fragments consolidate into
// the canonical identity tables in source-path order, and the assembled
// snapshot comes back together with a run report.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Options carries the collection-level conventions for one extraction,
// consumed as plain values.
type Options struct {
	Separator  string
	PublicKey  string
	Directives []string
	Workers    int // 0 means GOMAXPROCS
}

// NoteFailure records one note that could not contribute to the run.
type NoteFailure struct {
	Path string
	Err  error
}

// Report summarizes one extraction run. Failures are sorted by path.
type Report struct {
	NotesProcessed int
	NotesFailed    int
	Failures       []NoteFailure
}

// Runner extracts a note collection into a graph snapshot. A Runner is
// stateless across calls; every Run starts from a fresh identity table.
type Runner struct {
	store  storage.Provider
	parser *parser.Parser
	opts   Options
	logger *slog.Logger
}

// NewRunner creates a Runner over the given collection.
func NewRunner(store storage.Provider, opts Options, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		parser: parser.New(opts.Separator, opts.PublicKey, opts.Directives),
		opts:   opts,
		logger: logger,
	}
}

// Run performs one full extraction. Unreadable notes are isolated and
// reported, parsing is total, and the only fatal outcomes are listing
// failure, cancellation, and an inconsistent final graph.
func (r *Runner) Run(ctx context.Context) (*graph.Snapshot, *Report, error) {
	paths, err := r.store.List("")
	if err != nil {
		return nil, nil, fmt.Errorf("extract: list collection: %w", err)
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu        sync.Mutex
		fragments []*models.Note
		failures  []NoteFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := r.store.Read(path)
			if err != nil {
				r.logger.Warn("note skipped", slog.String("path", path), slog.String("error", err.Error()))
				mu.Lock()
				failures = append(failures, NoteFailure{Path: path, Err: err})
				mu.Unlock()
				return nil
			}
			n := r.parser.ParseNote(path, data)
			mu.Lock()
			fragments = append(fragments, n)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("extract: %w", err)
	}

	// Consolidation runs in source-path order so merges are deterministic
	// regardless of worker scheduling.
	sort.Slice(fragments, func(i, j int) bool { return fragments[i].Path < fragments[j].Path })

	resolver := graph.NewResolver(r.opts.Separator)
	processed := 0
	for _, n := range fragments {
		if err := resolver.AddNote(n); err != nil {
			r.logger.Warn("note skipped", slog.String("path", n.Path), slog.String("error", err.Error()))
			failures = append(failures, NoteFailure{Path: n.Path, Err: err})
			continue
		}
		processed++
		r.logger.Debug("note consolidated", slog.String("path", n.Path), slog.String("page", n.Name))
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })

	snap, err := graph.Assemble(resolver)
	if err != nil {
		return nil, nil, fmt.Errorf("extract: %w", err)
	}

	report := &Report{
		NotesProcessed: processed,
		NotesFailed:    len(failures),
		Failures:       failures,
	}
	return snap, report, nil
}
