package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/tabprof/internal/config"
	"github.com/KaramelBytes/tabprof/internal/loader"
	"github.com/KaramelBytes/tabprof/internal/profile"
	"github.com/KaramelBytes/tabprof/internal/report"
	"github.com/KaramelBytes/tabprof/internal/table"
)

// profileFlags are shared by profile and profile-batch. Flags left unset fall
// back to the loaded configuration.
type profileFlags struct {
	format     string
	delimiter  string
	decimal    string
	thousands  string
	engine     string
	nullValues []string
	types      map[string]string
	maxRows    int
	sampleSize int
	workers    int
	sheetName  string
	sheetIndex int
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.format, "format", "f", "", "output format: markdown|json|yaml (default from config)")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto from extension if omitted)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fs.StringVar(&f.engine, "engine", "", "CSV engine: native|gota")
	fs.StringSliceVar(&f.nullValues, "null-values", nil, "cell tokens read as missing (replaces the defaults)")
	fs.StringToStringVar(&f.types, "type", nil, "force a column type, e.g. --type zip=category (repeatable)")
	fs.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to process (0 = unlimited)")
	fs.IntVar(&f.sampleSize, "sample-size", 0, "distinct sample values kept per column")
	fs.IntVar(&f.workers, "workers", 0, "columns profiled concurrently (0 = GOMAXPROCS)")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to profile")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// runOptions is the resolved configuration of one profiling run.
type runOptions struct {
	load       loader.Options
	format     report.Format
	sampleSize int
	workers    int
}

func (f *profileFlags) resolve(cmd *cobra.Command) (runOptions, error) {
	base := cfg
	if base == nil {
		base = cfgpkg.Default()
	}
	c := *base
	changed := cmd.Flags().Changed
	set := func(flag, key, val string) error {
		if !changed(flag) {
			return nil
		}
		if err := c.Set(key, val); err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		return nil
	}
	for _, s := range []struct{ flag, key, val string }{
		{"format", "output_format", f.format},
		{"delimiter", "delimiter", f.delimiter},
		{"decimal", "decimal_separator", f.decimal},
		{"thousands", "thousands_separator", f.thousands},
		{"engine", "csv_engine", f.engine},
		{"max-rows", "max_rows", strconv.Itoa(f.maxRows)},
		{"sample-size", "sample_size", strconv.Itoa(f.sampleSize)},
		{"workers", "workers", strconv.Itoa(f.workers)},
	} {
		if err := set(s.flag, s.key, s.val); err != nil {
			return runOptions{}, err
		}
	}
	if changed("null-values") {
		c.NullValues = f.nullValues
	}

	var ro runOptions
	var err error
	if ro.format, err = report.ParseFormat(c.OutputFormat); err != nil {
		return ro, err
	}
	if ro.load.Parse, err = c.ParseOptions(); err != nil {
		return ro, err
	}
	if ro.load.Delimiter, err = c.DelimiterRune(); err != nil {
		return ro, fmt.Errorf("delimiter: %w", err)
	}
	if len(f.types) > 0 {
		ro.load.Parse.Types = make(map[string]table.DType, len(f.types))
		for col, name := range f.types {
			dt, err := table.ParseDType(name)
			if err != nil {
				return ro, fmt.Errorf("--type %s: %w", col, err)
			}
			ro.load.Parse.Types[col] = dt
		}
	}
	ro.load.Engine = c.CSVEngine
	ro.load.Sheet = f.sheetName
	ro.load.SheetIndex = f.sheetIndex
	ro.sampleSize = c.SampleSize
	ro.workers = c.Workers
	return ro, nil
}

// profileFile loads one dataset and profiles it.
func profileFile(path string, ro runOptions) (*report.Document, error) {
	log := logger.With(zap.String("source", filepath.Base(path)))
	tbl, warnings, err := loader.Open(path, ro.load)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn(w)
	}
	p, err := profile.Compute(tbl,
		profile.WithLogger(log),
		profile.WithWorkers(ro.workers),
		profile.WithSampleSize(ro.sampleSize),
	)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", filepath.Base(path), err)
	}
	return report.New(path, p, warnings), nil
}
