package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/tabprof/internal/table"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string, opt Options) (*table.Table, []string, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	switch strings.ToLower(opt.Engine) {
	case "", EngineNative:
		return readCSV(path, delim, opt.Parse)
	case EngineGota:
		return readCSVGota(path, delim, opt.Parse)
	}
	return nil, nil, fmt.Errorf("unknown csv engine %q (use %s|%s)", opt.Engine, EngineNative, EngineGota)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func readCSV(path string, delim rune, opt table.ParseOptions) (*table.Table, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	name := filepath.Base(path)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			t, err := table.New(name)
			return t, nil, err
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return table.Build(name, header, rows, opt)
}

// readCSVGota lets gota detect column types. gota has no datetime or
// category types, so type overrides are not applied.
func readCSVGota(path string, delim rune, opt table.ParseOptions) (*table.Table, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	nulls := opt.NullValues
	if len(nulls) == 0 {
		nulls = table.DefaultNullValues
	}
	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nulls),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", df.Err)
	}
	var warnings []string
	if len(opt.Types) > 0 {
		warnings = append(warnings, "type overrides are ignored by the gota engine")
	}
	if n := df.Nrow(); opt.MaxRows > 0 && n > opt.MaxRows {
		idx := make([]int, opt.MaxRows)
		for i := range idx {
			idx[i] = i
		}
		df = df.Subset(idx)
		warnings = append(warnings, fmt.Sprintf("processed only %d/%d rows due to max_rows", opt.MaxRows, n))
	}
	t, err := table.FromDataFrame(filepath.Base(path), df)
	if err != nil {
		return nil, nil, err
	}
	return t, warnings, nil
}
