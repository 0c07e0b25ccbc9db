package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ngx-essentials/ngxe/internal/batch"
	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/ngx-essentials/ngxe/internal/config"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Generate several stores from a YAML file",
	Long: `Generate every entity listed in a YAML file. All stores are written together;
if one entity fails nothing is written.

Example file:
  path: src/app/store
  pk: id
  entities:
    - name: product
    - name: category
      pk: slug

Example:
  ` + branding.CLIName() + ` batch stores.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := batch.Load(args[0])
		if err != nil {
			return err
		}
		dir, err := filepath.Abs(rootDir)
		if err != nil {
			return err
		}
		defaults := config.Current()
		if f.Lang == "" {
			f.Lang = defaults.Lang
		}

		t := tree.NewOS(dir)
		gen, err := newGenerator(t, defaults)
		if err != nil {
			return err
		}
		results, err := batch.Run(cmd.Context(), gen, f)
		if err != nil {
			t.Discard()
			return err
		}

		out := cmd.OutOrStdout()
		for _, res := range results {
			fmt.Fprintf(out, "%s store in %s (pk: %s)\n", res.Entity, res.Path[1:], res.PK)
			printConflicts(out, res.Store, res.Common)
		}
		return finish(cmd.Context(), out, t, nil)
	},
}
