package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Fuabioo/zipdir/internal/archive"
	"github.com/Fuabioo/zipdir/internal/errors"
)

var (
	// Version is set via ldflags during build
	Version = "dev"
	// Commit is set via ldflags during build
	Commit = "unknown"

	// Global flags
	flagJSON     bool
	flagQuiet    bool
	flagDebug    bool
	flagConfig   string
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zipdir <source_directory_or_file> [<destination_zipfile>]",
	Short: "Package a directory or a single file into a zip archive",
	Long: `zipdir walks a source directory and writes every file and subdirectory
into a single zip archive. When the source is not a directory it is wrapped
as a single stored entry named by its base name.

The destination defaults to the source path with a .zip suffix. The first
available method of the candidate list is used; the default list starts with
stored, so pass --method to compress.`,
	Example: `  zipdir myfolder
  zipdir myfolder/ backup.zip
  zipdir --method zstd logs logs.zip
  zipdir report.pdf`,
	Args:          validateArgs,
	RunE:          runArchive,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with the process arguments and returns the exit code.
// This is called by main.main().
func Execute() int {
	return run(rootCmd, os.Args[1:], os.Stderr)
}

// run executes cmd and maps the outcome to an exit code. It is the only
// place where errors become process status.
func run(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)

	executed, err := cmd.ExecuteC()
	if err != nil {
		printError(stderr, err)
		if errors.Is(err, errors.CodeUsage) {
			fmt.Fprint(stderr, executed.UsageString())
		}
	}

	return getExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Enable human-readable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/zipdir/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagLogLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringSliceP("method", "m", nil, "Compression method candidates in priority order (stored, deflate, bzip2, zstd)")
	rootCmd.Flags().String("on-unreadable", "", "What to do with unreadable files: empty, skip or abort")
	rootCmd.Flags().String("permissions", "", "Unix permission bits stored for entries in directory mode (octal)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Usage(err.Error())
	})

	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	target, err := resolveArgs(args)
	if err != nil {
		return err
	}

	cfg, cfgFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logConfigFile(logger, cfgFile)

	candidates, err := cfg.Candidates()
	if err != nil {
		return err
	}

	opts, err := cfg.ArchiveOptions(afero.NewOsFs(), logger)
	if err != nil {
		return err
	}

	outcome, res, err := archive.New(opts).ArchiveWith(candidates, target.Source, target.Destination)
	switch outcome {
	case archive.OutcomeNoMethod:
		logger.Debug("no compression method available, nothing written", zap.Strings("candidates", cfg.Methods))
		return nil
	case archive.OutcomeFailed:
		return err
	}

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), res)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "done: %s written to %s\n", target.Source, target.Destination)
	return nil
}

// GetVersion returns the version string
func GetVersion() string {
	if Commit != "unknown" && len(Commit) >= 7 {
		return fmt.Sprintf("%s (%s)", Version, Commit[:7])
	}
	return Version
}
