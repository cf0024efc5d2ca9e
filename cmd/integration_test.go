package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabprof/internal/workspace"
)

// resetFlags clears values and Changed state that persist on the package-level
// commands across invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else if f.Value.Type() != "stringToString" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its combined output.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	profFlags.types = map[string]string{}
	pbFlags.types = map[string]string{}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeCSV(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const citiesCSV = "age,score,city,zip\n" +
	"34,2.5,NYC,01234\n" +
	"41,3.1,LA,90210\n" +
	",4.0,NYC,10001\n" +
	"29,1.2,SF,94103\n"

func TestCLI_ProfileMarkdownToStdout(t *testing.T) {
	home := setupHome(t)
	p := writeCSV(t, filepath.Join(home, "cities.csv"), citiesCSV)

	out := runCmd(t, "profile", p)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "Rows: 4\nColumns: 4\n")
	assert.Contains(t, out, "- age: numerical (integer; missing 1, 25.0%; distinct 3)")
	assert.Contains(t, out, "- zip: categorical (string;")
	assert.Contains(t, out, "[CORRELATIONS]\n- age ~ score: r=")
}

func TestCLI_ProfileJSONToFile(t *testing.T) {
	home := setupHome(t)
	p := writeCSV(t, filepath.Join(home, "cities.csv"), citiesCSV)
	dst := filepath.Join(home, "out.json")

	out := runCmd(t, "profile", p, "--format", "json", "-o", dst,
		"--type", "zip=category", "--sample-size", "1", "--max-rows", "3")
	assert.Contains(t, out, "✓ Wrote profile to "+dst)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	var doc struct {
		ID       string   `json:"id"`
		Warnings []string `json:"warnings"`
		Profile  struct {
			RowCount int              `json:"row_count"`
			Columns  []map[string]any `json:"columns"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, 3, doc.Profile.RowCount)
	assert.Equal(t, []string{"processed only 3/4 rows due to max_rows"}, doc.Warnings)

	zip := doc.Profile.Columns[3]
	assert.Equal(t, "category", zip["declared_type"])
	assert.Equal(t, "categorical", zip["type"])
	assert.Equal(t, []any{"01234"}, zip["sample_values"])
}

func TestCLI_ProfileInfinityAsMissing(t *testing.T) {
	home := setupHome(t)
	src := writeCSV(t, filepath.Join(home, "inf.csv"), "a\n1\ninf\n3\n")

	out := runCmd(t, "profile", src, "-f", "json")
	var doc struct {
		Profile struct {
			Columns []map[string]any `json:"columns"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Profile.Columns, 1)
	a := doc.Profile.Columns[0]
	assert.Equal(t, "numerical", a["type"])
	assert.Equal(t, 1.0, a["missing_count"])
	assert.Equal(t, 2.0, a["mean"])
	assert.Equal(t, 3.0, a["max"])
}

func TestCLI_ProfileErrors(t *testing.T) {
	home := setupHome(t)
	p := writeCSV(t, filepath.Join(home, "cities.csv"), citiesCSV)

	_, err := execCmd(t, "profile", filepath.Join(home, "missing.csv"))
	assert.Error(t, err)

	_, err = execCmd(t, "profile", p, "--format", "html")
	assert.ErrorContains(t, err, "--format")

	_, err = execCmd(t, "profile", p, "--type", "zip=money")
	assert.ErrorContains(t, err, "unknown column type")

	_, err = execCmd(t, "profile", p, "-w", "nope")
	assert.ErrorContains(t, err, "workspace not found")
}

func TestCLI_WorkspaceLifecycle(t *testing.T) {
	home := setupHome(t)
	p := writeCSV(t, filepath.Join(home, "cities.csv"), citiesCSV)

	out := runCmd(t, "init", "survey", "-d", "city survey")
	assert.Contains(t, out, "✓ Workspace initialized")

	_, err := execCmd(t, "init", "survey")
	assert.ErrorContains(t, err, "already exists")

	out = runCmd(t, "profile", p, "-w", "survey")
	assert.Contains(t, out, "✓ Added profile to workspace 'survey' as cities.profile.md")

	wsDir, err := resolveWorkspaceDirByName("survey")
	require.NoError(t, err)
	ws, err := workspace.Load(wsDir)
	require.NoError(t, err)
	require.Len(t, ws.Datasets, 1)
	d := ws.Sorted()[0]
	assert.Equal(t, 4, d.Rows)
	assert.Equal(t, workspace.KindCount{Numerical: 2, Categorical: 2}, d.Kinds)
	assert.FileExists(t, d.ProfilePath)

	out = runCmd(t, "list", "--workspaces")
	assert.Contains(t, out, "- survey")
	out = runCmd(t, "list", "--datasets", "-w", "survey")
	assert.Contains(t, out, d.ID+": cities.csv (4 rows, 4 columns; 2 numerical, 2 categorical")

	_, err = execCmd(t, "list")
	assert.Error(t, err)

	out = runCmd(t, "workspace", "rm", d.ID, "-w", "survey")
	assert.Contains(t, out, "✓ Removed cities.csv")
	assert.NoFileExists(t, d.ProfilePath)
	out = runCmd(t, "list", "--datasets", "-w", "survey")
	assert.Contains(t, out, "(no datasets)")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := setupHome(t)

	runCmd(t, "config", "set", "sample_size", "2")
	runCmd(t, "config", "set", "decimal_separator", "comma")
	assert.FileExists(t, filepath.Join(home, ".tabprof", "config.yaml"))

	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "sample_size: 2\n")
	assert.Contains(t, out, "decimal_separator: \"comma\"\n")

	_, err := execCmd(t, "config", "set", "colour", "blue")
	assert.ErrorContains(t, err, "unknown key")

	// the saved sample size applies to profiles
	p := writeCSV(t, filepath.Join(home, "n.csv"), "n;label\n1,5;a\n2,5;b\n3,5;c\n")
	out = runCmd(t, "profile", p, "--delimiter", ";", "--format", "yaml")
	var doc struct {
		Profile struct {
			Columns []map[string]any `yaml:"columns"`
		} `yaml:"profile"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Profile.Columns, 2)
	n := doc.Profile.Columns[0]
	assert.Equal(t, "float", n["declared_type"])
	assert.EqualValues(t, 2.5, n["mean"])
	for _, c := range doc.Profile.Columns {
		assert.Len(t, c["sample_values"], 2)
	}
}
