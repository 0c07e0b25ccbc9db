package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/ngx-essentials/ngxe/internal/config"
	"github.com/ngx-essentials/ngxe/internal/merge"
	"github.com/ngx-essentials/ngxe/internal/store"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"github.com/spf13/cobra"
)

var (
	storePath       string
	storePK         string
	storeLang       string
	storeProject    string
	storeOnConflict string
)

func init() {
	storeCmd.Flags().StringVar(&storePath, "path", "", "Store directory (default: <sourceRoot>/app/store)")
	storeCmd.Flags().StringVar(&storePK, "pk", "", "Primary key property (default: workspace setting, then id)")
	storeCmd.Flags().StringVar(&storeLang, "lang", "", "Pluralization language: en or es (default from config)")
	storeCmd.Flags().StringVar(&storeProject, "project", "", "Workspace project to read defaults from")
	storeCmd.Flags().StringVar(&storeOnConflict, "on-conflict", "", "skip or append when a generated file was modified (default from config)")
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store <name>",
	Short: "Generate a signal store for an entity",
	Long: `Generate <name>.model.ts, <name>.service.ts and <name>.store.ts, the shared
common/entity feature and an index.ts entry re-exporting them.

Existing files are never overwritten. Files that were changed by hand are
kept unless --on-conflict append is given.

Examples:
  ` + branding.CLIName() + ` store product
  ` + branding.CLIName() + ` store order-item --pk orderId --path src/app/state
  ` + branding.CLIName() + ` store flor --lang es`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(rootDir)
		if err != nil {
			return err
		}
		defaults := config.Current()

		t := tree.NewOS(dir)
		gen, err := newGenerator(t, defaults)
		if err != nil {
			return err
		}
		res, err := gen.Generate(cmd.Context(), store.Options{
			Name:       args[0],
			Path:       storePath,
			PK:         storePK,
			Lang:       firstNonEmpty(storeLang, defaults.Lang),
			Project:    storeProject,
			OnConflict: storeOnConflict,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s store in %s (pk: %s)\n", res.Entity, res.Path[1:], res.PK)
		printConflicts(out, res.Store, res.Common)
		return finish(cmd.Context(), out, t, nil)
	},
}

// newGenerator builds a generator with the user's configured defaults.
func newGenerator(t tree.Tree, defaults config.Defaults) (*store.Generator, error) {
	policy, err := merge.ParsePolicy(defaults.OnConflict)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", config.KeyOnConflict, err)
	}
	gen := store.New(t, log)
	gen.Policy = policy
	gen.ConfigPK = defaults.PK
	return gen, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
