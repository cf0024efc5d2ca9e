package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	profFlags     profileFlags
	profOutput    string
	profWorkspace string
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a CSV/TSV/XLSX dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ro, err := profFlags.resolve(cmd)
		if err != nil {
			return err
		}
		doc, err := profileFile(path, ro)
		if err != nil {
			return err
		}
		body, err := doc.Render(ro.format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		// Decide where to write: --output path, or attach to workspace, or stdout
		written := false
		if profOutput != "" {
			if err := os.WriteFile(profOutput, body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote profile to %s\n", profOutput)
			written = true
		}
		if profWorkspace != "" {
			ws, err := openWorkspace(profWorkspace)
			if err != nil {
				return err
			}
			outFile, err := attachProfile(ws, doc, ro.format, body, profFlags.sheetName)
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Added profile to workspace '%s' as %s\n", ws.Name, outFile)
			written = true
		}
		if !written {
			_, err := out.Write(body)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profFlags.register(profileCmd)
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "optional path to write the profile")
	profileCmd.Flags().StringVarP(&profWorkspace, "workspace", "w", "", "workspace name to attach the profile ('.' = enclosing workspace directory)")
}
