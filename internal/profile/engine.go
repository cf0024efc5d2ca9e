package profile

import (
	"fmt"
	"reflect"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/tabprof/internal/table"
)

// Table is the read-only view of a dataset that Compute needs.
// *table.Table satisfies it.
type Table interface {
	Len() int
	Width() int
	ColumnAt(i int) (*table.Column, error)
}

type options struct {
	logger     *zap.Logger
	workers    int
	sampleSize int
}

// Option configures Compute.
type Option func(*options)

// WithLogger sets the logger for per-column debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers bounds how many columns are summarized concurrently.
// n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithSampleSize sets how many distinct values each column preview holds.
func WithSampleSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.sampleSize = n
		}
	}
}

// Compute profiles t: per-column summaries in table order plus the Pearson
// correlation matrix over the numerical columns. t is only read. An error is
// returned only when t is absent or structurally invalid; see ErrInvalidInput.
func Compute(t Table, opts ...Option) (*Profile, error) {
	o := options{logger: zap.NewNop(), sampleSize: DefaultSampleSize}
	for _, fn := range opts {
		fn(&o)
	}
	if isNil(t) {
		return nil, fmt.Errorf("%w: table is nil", ErrInvalidInput)
	}
	start := time.Now()

	rows, width := t.Len(), t.Width()
	cols := make([]*table.Column, width)
	var numeric []*table.Column
	for i := range cols {
		c, err := t.ColumnAt(i)
		if err != nil {
			return nil, &ColumnError{Index: i, Err: err}
		}
		if c == nil {
			return nil, &ColumnError{Index: i, Err: fmt.Errorf("column is nil")}
		}
		if c.Len() != rows {
			return nil, &ColumnError{Index: i, Name: c.Name, Err: fmt.Errorf("has %d rows, table has %d", c.Len(), rows)}
		}
		cols[i] = c
		if Classify(c.Type) == Numerical {
			numeric = append(numeric, c)
		}
	}

	p := &Profile{
		RowCount:    rows,
		ColumnCount: width,
		Columns:     make([]ColumnProfile, width),
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	g.Go(func() error {
		p.Correlations = correlate(numeric)
		return nil
	})
	for i, c := range cols {
		i, c := i, c
		g.Go(func() error {
			began := time.Now()
			p.Columns[i] = summarize(c, o.sampleSize)
			o.logger.Debug("column profiled",
				zap.Int("index", i),
				zap.String("column", c.Name),
				zap.Stringer("declared_type", c.Type),
				zap.Stringer("kind", p.Columns[i].Kind),
				zap.Duration("took", time.Since(began)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Debug("table profiled",
		zap.Int("rows", rows),
		zap.Int("columns", width),
		zap.Int("numeric_columns", len(numeric)),
		zap.Duration("took", time.Since(start)))
	return p, nil
}

// isNil catches both a nil interface and a typed nil pointer inside it.
func isNil(t Table) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
