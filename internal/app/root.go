package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/repofmt/internal/config"
	"github.com/andyballingall/repofmt/internal/dispatch"
	"github.com/andyballingall/repofmt/internal/executor"
	"github.com/andyballingall/repofmt/internal/fs"
	"github.com/andyballingall/repofmt/internal/repo"
	"github.com/andyballingall/repofmt/internal/validator"
)

// Version is the current version of repofmt, set at build time.
var Version = "dev"

const InitCmdName = "init"

var LongDescription = `
repofmt runs the right external formatters over the files of a git repository.

Each file is matched against the formatter table (built in, or read from
.repofmt.yml at the repository root) and every matching formatter runs, in
order, on a private copy of the file. In check mode the differences are
printed; otherwise the original is replaced only if the formatted copy differs.

By default only files changed since the base reference are formatted. Give
glob patterns as arguments to narrow the selection further.
`

// rootFlags holds the values of the root command's flags.
type rootFlags struct {
	verbose    int
	check      bool
	all        bool
	base       string
	jobs       int
	configPath pathValue
	output     formatValue
	exitCode   bool
	watch      bool
	noColour   bool
	debug      bool
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, env fs.EnvProvider) *cobra.Command {
	f := &rootFlags{output: formatValue("text")}
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "repofmt [globs...]",
		Short:         "Run external formatters over a git repository",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		Args:          cobra.ArbitraryArgs,
		Example: `
  repofmt                  format files changed since origin/main
  repofmt --all            format every tracked file
  repofmt --check -v       show what would change
  repofmt '*.cpp' 'src/**' format only matching files
  repofmt --watch          format files as they are saved`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if f.debug {
				ll.Set(slog.LevelDebug)
			}

			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			logger, closer, err := setupLogger(stderr, ll, env)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			lazy.SetCloser(closer)

			gitter := repo.NewCLIGitter("")
			root, err := gitter.Root(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to find the repository root: %w", err)
			}
			prefix, err := gitter.Prefix(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to locate the working directory in the repository: %w", err)
			}

			cfg, err = loadConfig(string(f.configPath), root)
			if err != nil {
				return err
			}
			logger.Debug("configuration", "path", cfg.Path, "base", cfg.Base, "jobs", cfg.Jobs)

			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			ex := executor.New(registry, executor.NewExecRunner(), logger)
			ex.SetPrefix(prefix)
			dispatcher := dispatch.NewDispatcher(gitter, ex, logger)
			jobs := cfg.Jobs
			if cmd.Flags().Changed("jobs") {
				jobs = f.jobs
			}
			dispatcher.SetNumWorkers(jobs)
			logger.Debug("workers", "count", dispatcher.NumWorkers(), "prefix", prefix)

			lazy.SetInner(NewCLIManager(logger, dispatcher, ".", stdout))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := f.request(args)
			if cmd.Flags().Changed("base") || cfg == nil {
				req.Selection.Base = f.base
			} else {
				req.Selection.Base = cfg.Base
			}

			if f.watch {
				return lazy.Watch(cmd.Context(), req, nil)
			}
			return lazy.Format(cmd.Context(), req)
		},
	}

	flags := rootCmd.Flags()
	flags.CountVarP(&f.verbose, "verbose", "v", "Show skipped files and formatter output (-vv also shows commands)")
	flags.BoolVarP(&f.check, "check", "c", false, "Show differences instead of rewriting files")
	flags.BoolVarP(&f.all, "all", "a", false, "Format every tracked file, not just changed ones")
	flags.StringVar(&f.base, "base", repo.DefaultBase, "Reference to compare against when selecting changed files")
	flags.IntVarP(&f.jobs, "jobs", "j", 0, "Number of files formatted in parallel (default: number of CPUs)")
	flags.Var(&f.configPath, "config", "Config file (default: .repofmt.yml at the repository root)")
	flags.VarP(&f.output, "output", "o", "Output format (text, json)")
	flags.BoolVar(&f.exitCode, "exit-code", false, "In check mode, fail when any file would change")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Watch the working tree and format files as they change")

	rootCmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "nocolour", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}

// request translates the flags into a FormatRequest. Base is filled in by the caller.
func (f *rootFlags) request(globs []string) FormatRequest {
	if len(globs) == 0 {
		globs = nil
	}
	mode := executor.ModeApply
	if f.check {
		mode = executor.ModeCheck
	}
	return FormatRequest{
		Selection: dispatch.Selection{All: f.all, Globs: globs},
		Exec: executor.Options{
			Mode:       mode,
			Verbosity:  f.verbose,
			UseColour:  !f.noColour && f.output != "json",
			FailOnDiff: f.exitCode,
		},
		Output:  string(f.output),
		Summary: f.verbose > 0,
	}
}

// loadConfig reads the explicit config file, or the one at the repository
// root when it exists, falling back to the built-in defaults.
func loadConfig(explicit, root string) (*config.Config, error) {
	loader, err := config.NewLoader(validator.NewSanthoshCompiler())
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}

	if explicit != "" {
		return loader.Load(explicit)
	}

	cfg, err := loader.Load(filepath.Join(root, config.FileName))
	var missing *config.MissingConfigError
	if errors.As(err, &missing) {
		return config.Default(), nil
	}
	return cfg, err
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
