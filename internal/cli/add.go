package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/ngx-essentials/ngxe/internal/config"
	"github.com/ngx-essentials/ngxe/internal/setup"
	"github.com/ngx-essentials/ngxe/internal/tasks"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"github.com/spf13/cobra"
)

var (
	addPK             string
	addSkipInstall    bool
	addPackageManager string
)

func init() {
	addCmd.Flags().StringVar(&addPK, "pk", "id", "Default primary key recorded in angular.json")
	addCmd.Flags().BoolVar(&addSkipInstall, "skip-install", false, "Do not run the package manager afterwards")
	addCmd.Flags().StringVar(&addPackageManager, "package-manager", "", "npm, yarn, pnpm or bun (default: detect from lock file)")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Set up @ngrx/signals in an Angular project",
	Long: `Pin @ngrx/signals to the installed Angular major version, register the
schematic collection in angular.json and install dependencies.

Examples:
  ` + branding.CLIName() + ` add
  ` + branding.CLIName() + ` add --pk uuid --skip-install`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(rootDir)
		if err != nil {
			return err
		}
		pm := addPackageManager
		if pm == "" {
			pm = config.Current().PackageManager
		}

		t := tree.NewOS(dir)
		queue := &tasks.Queue{}
		res, err := setup.Run(cmd.Context(), t, setup.Options{
			PK:             addPK,
			SkipInstall:    addSkipInstall,
			PackageManager: pm,
			Dir:            dir,
		}, queue, log)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.Applied() {
			fmt.Fprintln(out, color.New(color.FgRed).Sprint(res.Manifest.Reason))
			fmt.Fprintln(out, "No changes made.")
			return nil
		}
		return finish(cmd.Context(), out, t, queue)
	},
}
