package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leengari/csvindex/internal/domain/run"
	"github.com/leengari/csvindex/internal/domain/schema"
	"github.com/leengari/csvindex/internal/hierarchy"
	"github.com/leengari/csvindex/internal/storage/loader"
	"github.com/leengari/csvindex/internal/storage/writer"
)

// Options configures an Engine
type Options struct {
	Index IndexOptions
	Comma rune // CSV delimiter for both reading and writing (default: ',')
}

// Job names where a run reads from and writes to.
// An empty Destination means the source is overwritten.
type Job struct {
	Source      string
	Destination string
}

// Result summarizes a finished run
type Result struct {
	RunID       string
	Source      string
	Destination string
	Column      string // index column written (empty for hierarchy exports)
	Rows        int
	Columns     int
	Duration    time.Duration
}

// Engine is the main entry point: it loads a CSV, transforms it and writes
// the result, reporting each phase to its observers
type Engine struct {
	opts      Options
	logger    *slog.Logger
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine instance
func New(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:      opts,
		logger:    logger,
		observers: make([]Observer, 0),
	}
}

// Run adds the index column to job.Source and writes the result to
// job.Destination. Nothing is written unless every earlier phase succeeded.
func (e *Engine) Run(ctx context.Context, job Job) (*Result, error) {
	r := run.New()
	runID := r.ID

	dest := job.Destination
	if dest == "" {
		dest = job.Source
	}

	table, err := e.load(ctx, runID, job.Source)
	if err != nil {
		return nil, err
	}

	// 1. Index
	e.notify(Event{Type: EventIndexStart, RunID: runID, Data: table.Len()})
	column, err := AddIndexColumn(table, e.opts.Index)
	if err != nil {
		return nil, e.fail(runID, fmt.Errorf("index error: %w", err))
	}
	e.notify(Event{Type: EventIndexEnd, RunID: runID, Data: column})

	// 2. Write
	if err := ctx.Err(); err != nil {
		return nil, e.fail(runID, err)
	}
	e.notify(Event{Type: EventWriteStart, RunID: runID, Data: dest})
	if err := writer.SaveTable(table, dest, writer.Options{Comma: e.opts.Comma}, e.logger.With("run_id", runID)); err != nil {
		return nil, e.fail(runID, fmt.Errorf("write error: %w", err))
	}
	e.notify(Event{Type: EventWriteEnd, RunID: runID, Data: dest})

	result := &Result{
		RunID:       runID,
		Source:      job.Source,
		Destination: dest,
		Column:      column,
		Rows:        table.Len(),
		Columns:     len(table.Columns),
		Duration:    r.Elapsed(),
	}

	e.logger.Debug("index column written",
		slog.String("run_id", runID),
		slog.Uint64("run_seq", r.Seq),
		slog.String("column", column),
		slog.String("destination", dest),
		slog.Int("rows", result.Rows),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// ExportHierarchy converts job.Source into a JSON tree written to job.Destination
func (e *Engine) ExportHierarchy(ctx context.Context, job Job, spec hierarchy.Spec) (*Result, error) {
	r := run.New()
	runID := r.ID

	if job.Destination == "" {
		return nil, fmt.Errorf("hierarchy export needs a destination")
	}

	table, err := e.load(ctx, runID, job.Source)
	if err != nil {
		return nil, err
	}

	e.notify(Event{Type: EventStratifyStart, RunID: runID, Data: table.Len()})
	root, err := hierarchy.Stratify(table, spec)
	if err != nil {
		return nil, e.fail(runID, fmt.Errorf("stratify error: %w", err))
	}
	e.notify(Event{Type: EventStratifyEnd, RunID: runID, Data: len(root.Children)})

	if err := ctx.Err(); err != nil {
		return nil, e.fail(runID, err)
	}
	e.notify(Event{Type: EventWriteStart, RunID: runID, Data: job.Destination})
	if err := writer.WriteJSON(job.Destination, root, e.logger.With("run_id", runID)); err != nil {
		return nil, e.fail(runID, fmt.Errorf("write error: %w", err))
	}
	e.notify(Event{Type: EventWriteEnd, RunID: runID, Data: job.Destination})

	return &Result{
		RunID:       runID,
		Source:      job.Source,
		Destination: job.Destination,
		Rows:        table.Len(),
		Columns:     len(table.Columns),
		Duration:    r.Elapsed(),
	}, nil
}

func (e *Engine) load(ctx context.Context, runID, source string) (*schema.Table, error) {
	if source == "" {
		return nil, e.fail(runID, fmt.Errorf("no source file given"))
	}
	if err := ctx.Err(); err != nil {
		return nil, e.fail(runID, err)
	}

	e.notify(Event{Type: EventLoadStart, RunID: runID, Data: source})
	table, err := loader.LoadTable(source, loader.Options{Comma: e.opts.Comma}, e.logger.With("run_id", runID))
	if err != nil {
		return nil, e.fail(runID, fmt.Errorf("load error: %w", err))
	}
	e.notify(Event{Type: EventLoadEnd, RunID: runID, Data: table.Len()})

	if err := ctx.Err(); err != nil {
		return nil, e.fail(runID, err)
	}
	return table, nil
}

func (e *Engine) fail(runID string, err error) error {
	e.notify(Event{Type: EventRunFailed, RunID: runID, Data: err.Error()})
	return err
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
