package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/tabprof/internal/report"
	"github.com/KaramelBytes/tabprof/internal/utils"
	"github.com/KaramelBytes/tabprof/internal/workspace"
)

var (
	pbFlags     profileFlags
	pbWorkspace string
	pbOutputDir string
	pbJobs      int
	pbKeepGoing bool
	pbQuiet     bool
)

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <files...>",
	Short: "Profile multiple CSV/TSV/XLSX files with progress and optional workspace attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		ro, err := pbFlags.resolve(cmd)
		if err != nil {
			return err
		}

		var ws *workspace.Workspace
		if pbWorkspace != "" {
			if ws, err = openWorkspace(pbWorkspace); err != nil {
				return err
			}
		}
		if pbOutputDir != "" {
			if err := utils.EnsureDir(pbOutputDir); err != nil {
				return err
			}
		}

		docs, errs := profileAll(cmd.Context(), files, ro)

		out := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		// output-dir paths written in this run
		outputs := map[string]struct{}{}
		for i, path := range files {
			name := filepath.Base(path)
			if errs[i] != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] ✗ %s: %v\n", i+1, total, name, errs[i])
				continue
			}
			doc := docs[i]
			if doc == nil {
				// not started: an earlier file failed without --keep-going
				continue
			}
			if !pbQuiet {
				fmt.Fprintf(out, "[%d/%d] Profiled %s (%d rows, %d columns)\n",
					i+1, total, name, doc.Profile.RowCount, doc.Profile.ColumnCount)
			}
			body, err := doc.Render(ro.format)
			if err != nil {
				return err
			}

			written := false
			if pbOutputDir != "" {
				stem := strings.TrimSuffix(name, filepath.Ext(name))
				dst := profilePath(pbOutputDir, stem, ro.format, func(p string) bool {
					_, ok := outputs[p]
					return ok
				})
				outputs[dst] = struct{}{}
				if err := utils.SafeWriteFile(dst, body); err != nil {
					return err
				}
				written = true
			}
			if ws != nil {
				outFile, err := attachProfile(ws, doc, ro.format, body, pbFlags.sheetName)
				if err != nil {
					return err
				}
				if err := ws.Save(); err != nil {
					return err
				}
				if !pbQuiet {
					fmt.Fprintf(out, "✓ Added profile to workspace '%s' as %s\n", ws.Name, outFile)
				}
				written = true
			}
			if !written && !pbQuiet {
				if _, err := out.Write(body); err != nil {
					return err
				}
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// profileAll profiles files concurrently, bounded by --jobs. Results and
// errors are slotted by input index. Without --keep-going the first failure
// cancels files not yet started.
func profileAll(ctx context.Context, files []string, ro runOptions) ([]*report.Document, []error) {
	if ctx == nil {
		ctx = context.Background()
	}
	docs := make([]*report.Document, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	jobs := pbJobs
	if jobs <= 0 {
		jobs = 1
	}
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			doc, err := profileFile(path, ro)
			if err != nil {
				logger.Debug("profile failed", zap.String("source", path), zap.Error(err))
				errs[i] = err
				if pbKeepGoing {
					return nil
				}
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()
	return docs, errs
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	pbFlags.register(profileBatchCmd)
	profileBatchCmd.Flags().StringVarP(&pbWorkspace, "workspace", "w", "", "workspace name to attach profiles ('.' = enclosing workspace directory)")
	profileBatchCmd.Flags().StringVar(&pbOutputDir, "output-dir", "", "directory to write one profile file per input")
	profileBatchCmd.Flags().IntVarP(&pbJobs, "jobs", "j", 1, "files profiled concurrently")
	profileBatchCmd.Flags().BoolVar(&pbKeepGoing, "keep-going", false, "continue past files that fail to load")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress and non-essential output")
}
