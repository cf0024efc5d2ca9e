package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabprof/internal/table"
)

// Engines for delimited text.
const (
	EngineNative = "native"
	EngineGota   = "gota"
)

// Options controls how a dataset file becomes a table.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// Engine selects the CSV reader: EngineNative (default) or EngineGota.
	Engine string
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used when empty.
	Sheet      string
	SheetIndex int
	// Parse controls null tokens, number locale, type overrides and row limits.
	Parse table.ParseOptions
}

// Loader reads one family of dataset files.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*table.Table, []string, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported dataset format")

// Open selects a loader based on filename and reads the dataset. The returned
// warnings describe lossy steps taken while reading.
func Open(path string, opt Options) (*table.Table, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	// Register default loaders
	Register(csvLoader{})
	Register(xlsxLoader{})
}
