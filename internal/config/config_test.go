package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, c.SampleSize)
	assert.Equal(t, 0, c.MaxRows)
	assert.Equal(t, "markdown", c.OutputFormat)
	assert.Equal(t, "native", c.CSVEngine)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, filepath.Join(home, ".tabprof", "workspaces"), c.WorkspacesDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_size: 9\nmax_rows: 100\ncsv_engine: gota\n"), 0o644))
	t.Setenv("TABPROF_MAX_ROWS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, c.SampleSize)
	assert.Equal(t, 7, c.MaxRows)
	assert.Equal(t, "gota", c.CSVEngine)
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("sample_size", "3"))
	require.NoError(t, c.Set("null_values", "NA, ?"))
	require.NoError(t, Save(c, ""))
	assert.FileExists(t, filepath.Join(home, ".tabprof", "config.yaml"))

	back, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, back.SampleSize)
	assert.Equal(t, []string{"NA", "?"}, back.NullValues)
}

func TestSetValidates(t *testing.T) {
	c := Default()
	tests := []struct {
		key, val string
		ok       bool
	}{
		{"sample_size", "10", true},
		{"sample_size", "-1", false},
		{"workers", "x", false},
		{"max_rows", "-5", false},
		{"output_format", "YAML", true},
		{"output_format", "html", false},
		{"delimiter", ";", true},
		{"delimiter", `\t`, true},
		{"delimiter", ";;", false},
		{"csv_engine", "gota", true},
		{"csv_engine", "arrow", false},
		{"log_level", "debug", true},
		{"log_level", "trace", false},
		{"nope", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			err := c.Set(tt.key, tt.val)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
	assert.Equal(t, "yaml", c.OutputFormat)
	assert.Equal(t, 10, c.SampleSize)
	assert.Equal(t, 0, c.MaxRows)
}

func TestLoadValidatesFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("csv_engine: arrow\nworkers: -1\n"), 0o644))
	_, err := Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv_engine=arrow fails oneof")
	assert.Contains(t, err.Error(), "workers=-1 fails min=0")

	upper := filepath.Join(dir, "upper.yaml")
	require.NoError(t, os.WriteFile(upper, []byte("output_format: JSON\ndelimiter: tab\n"), 0o644))
	c, err := Load(upper)
	require.NoError(t, err)
	assert.Equal(t, "json", c.OutputFormat)
	assert.Equal(t, "tab", c.Delimiter)
}

func TestGetKnowsEveryKey(t *testing.T) {
	c := &Global{Delimiter: ";"}
	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
	v, _ := c.Get("delimiter")
	assert.Equal(t, `";"`, v)
	_, err := c.Get("nope")
	assert.Error(t, err)
}

func TestParseOptions(t *testing.T) {
	c := &Global{DecimalSeparator: ",", ThousandsSeparator: ".", MaxRows: 10, NullValues: []string{"?"}}
	opt, err := c.ParseOptions()
	require.NoError(t, err)
	assert.Equal(t, ',', opt.DecimalSeparator)
	assert.Equal(t, '.', opt.ThousandsSeparator)
	assert.Equal(t, 10, opt.MaxRows)
	assert.Equal(t, []string{"?"}, opt.NullValues)

	c.DecimalSeparator = "ab"
	_, err = c.ParseOptions()
	assert.Error(t, err)

	d := &Global{Delimiter: "tab"}
	r, err := d.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, '\t', r)
}
