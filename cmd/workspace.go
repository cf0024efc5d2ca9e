package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprof/internal/report"
	"github.com/KaramelBytes/tabprof/internal/utils"
	"github.com/KaramelBytes/tabprof/internal/workspace"
)

var (
	wsName     string
	wsKeepFile bool
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage datasets attached to a workspace",
}

var workspaceRmCmd = &cobra.Command{
	Use:   "rm <dataset-id>",
	Short: "Detach a dataset from a workspace and delete its profile file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if wsName == "" {
			return fmt.Errorf("--workspace is required")
		}
		ws, err := openWorkspace(wsName)
		if err != nil {
			return err
		}
		d, err := ws.RemoveDataset(args[0])
		if err != nil {
			return err
		}
		if !wsKeepFile && d.ProfilePath != "" {
			if err := os.Remove(d.ProfilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove profile file: %w", err)
			}
		}
		if err := ws.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s (%s) from workspace '%s'\n", d.Name, d.ID, ws.Name)
		return nil
	},
}

// openWorkspace loads a workspace by name, or the one enclosing the working
// directory when name is ".".
func openWorkspace(name string) (*workspace.Workspace, error) {
	if name == "." {
		dir, err := utils.FindRoot("", workspace.FileName)
		if err != nil {
			return nil, fmt.Errorf("no enclosing workspace: %w", err)
		}
		return workspace.Load(dir)
	}
	dir, err := resolveWorkspaceDirByName(name)
	if err != nil {
		return nil, err
	}
	return workspace.Load(dir)
}

// attachProfile writes the rendered profile under the workspace's profiles
// directory without overwriting earlier ones, and records the dataset.
func attachProfile(ws *workspace.Workspace, doc *report.Document, format report.Format, body []byte, sheet string) (string, error) {
	outDir := ws.ProfilesDir()
	if err := utils.EnsureDir(outDir); err != nil {
		return "", err
	}
	base := filepath.Base(doc.Source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet != "" {
		stem = stem + "__sheet-" + slug(sheet)
	}
	outFile := profilePath(outDir, stem, format, func(p string) bool {
		_, err := os.Stat(p)
		return !os.IsNotExist(err)
	})
	if err := utils.SafeWriteFile(outFile, body); err != nil {
		return "", fmt.Errorf("write workspace profile: %w", err)
	}
	if _, err := ws.AddDataset(doc.Source, outFile, doc.Profile); err != nil {
		return "", err
	}
	return filepath.Base(outFile), nil
}

// profilePath returns dir/stem.profile<ext>, adding __2, __3 ... to the stem
// until taken reports the path free.
func profilePath(dir, stem string, format report.Format, taken func(string) bool) string {
	p := filepath.Join(dir, stem+".profile"+format.Ext())
	for idx := 2; taken(p); idx++ {
		p = filepath.Join(dir, fmt.Sprintf("%s__%d.profile%s", stem, idx, format.Ext()))
	}
	return p
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "sheet"
	}
	return out
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceRmCmd)

	workspaceRmCmd.Flags().StringVarP(&wsName, "workspace", "w", "", "workspace name ('.' = enclosing workspace directory)")
	workspaceRmCmd.Flags().BoolVar(&wsKeepFile, "keep-file", false, "keep the profile file on disk")
}
