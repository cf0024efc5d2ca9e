package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprof/internal/workspace"
)

var (
	listWorkspaces bool
	listDatasets   bool
	listWsName     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces or profiled datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if listWorkspaces == listDatasets { // either both true or both false
			return fmt.Errorf("specify exactly one of --workspaces or --datasets")
		}
		if listWorkspaces {
			return listAllWorkspaces(out)
		}
		if listWsName == "" {
			return fmt.Errorf("--workspace is required when using --datasets")
		}
		ws, err := openWorkspace(listWsName)
		if err != nil {
			return err
		}
		if len(ws.Datasets) == 0 {
			fmt.Fprintln(out, "(no datasets)")
			return nil
		}
		for _, d := range ws.Sorted() {
			fmt.Fprintf(out, "- %s: %s (%d rows, %d columns; %d numerical, %d categorical, %d datetime, %d other)\n",
				d.ID, d.Name, d.Rows, d.Columns, d.Kinds.Numerical, d.Kinds.Categorical, d.Kinds.Datetime, d.Kinds.Other)
		}
		return nil
	},
}

func listAllWorkspaces(out io.Writer) error {
	root, err := defaultWorkspacesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), workspace.FileName)); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a workspace")
	listCmd.Flags().StringVarP(&listWsName, "workspace", "w", "", "workspace name for --datasets")
}
