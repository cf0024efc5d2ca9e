package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabprof/internal/profile"
	"github.com/KaramelBytes/tabprof/internal/utils"
)

// FileName is the metadata file at a workspace root.
const FileName = "workspace.json"

// ErrDatasetNotFound is returned when an id matches no attached dataset.
var ErrDatasetNotFound = errors.New("dataset not found")

// Workspace groups profiled datasets on disk.
type Workspace struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the workspace.json
	rootDir string `json:"-"`
}

// New constructs an in-memory workspace. Call Save() to persist.
func New(name, description, rootDir string) *Workspace {
	now := time.Now()
	return &Workspace{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// Load reads workspace.json from the provided directory.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Datasets == nil {
		w.Datasets = make(map[string]*Dataset)
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory path.
func (w *Workspace) RootDir() string { return w.rootDir }

// ProfilesDir is where profile outputs of attached datasets are written.
func (w *Workspace) ProfilesDir() string { return filepath.Join(w.rootDir, "profiles") }

// Save writes workspace.json using atomic write.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, FileName), data)
}

// AddDataset records a profiled dataset and returns its entry.
func (w *Workspace) AddDataset(source, profilePath string, p *profile.Profile) (*Dataset, error) {
	if p == nil {
		return nil, errors.New("profile is nil")
	}
	d := &Dataset{
		ID:          uuid.NewString(),
		Source:      source,
		Name:        filepath.Base(source),
		ProfilePath: profilePath,
		Rows:        p.RowCount,
		Columns:     p.ColumnCount,
		ProfiledAt:  time.Now(),
	}
	for _, c := range p.Columns {
		switch c.Kind {
		case profile.Numerical:
			d.Kinds.Numerical++
		case profile.Categorical:
			d.Kinds.Categorical++
		case profile.Datetime:
			d.Kinds.Datetime++
		default:
			d.Kinds.Other++
		}
	}
	if w.Datasets == nil {
		w.Datasets = make(map[string]*Dataset)
	}
	w.Datasets[d.ID] = d
	w.UpdatedAt = time.Now()
	return d, nil
}

// RemoveDataset detaches a dataset by id. The profile file is left in place.
func (w *Workspace) RemoveDataset(id string) (*Dataset, error) {
	d, ok := w.Datasets[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrDatasetNotFound)
	}
	delete(w.Datasets, id)
	w.UpdatedAt = time.Now()
	return d, nil
}

// Sorted returns attached datasets ordered by profiling time, then name.
func (w *Workspace) Sorted() []*Dataset {
	out := make([]*Dataset, 0, len(w.Datasets))
	for _, d := range w.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ProfiledAt.Equal(out[j].ProfiledAt) {
			return out[i].ProfiledAt.Before(out[j].ProfiledAt)
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
