package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/ngx-essentials/ngxe/internal/config"
	"github.com/ngx-essentials/ngxe/internal/logx"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Persistent flags shared by every command.
var (
	rootDir  string
	dryRun   bool
	logLevel string
	noColor  bool
)

// log is built in PersistentPreRun once flags and config are known.
var log logx.Logger = logx.Nop()

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Angular project root")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the changes without writing them")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` sets up @ngrx/signals in an Angular workspace and generates
signal stores (model, service, store) plus the shared entity-status feature.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		if noColor {
			color.NoColor = true
		}
		level := logLevel
		if level == "" {
			level = config.Current().LogLevel
		}
		log = logx.New(level, cmd.ErrOrStderr(), !color.NoColor)
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
