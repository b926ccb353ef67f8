package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mvp-joe/docgen/internal/config"
	"github.com/mvp-joe/docgen/internal/generator"
	"github.com/mvp-joe/docgen/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrWatchNeedsOutput is returned when --watch is used while writing to stdout.
var ErrWatchNeedsOutput = errors.New("--watch requires --output FILE")

// rootOptions holds flags that are not configuration keys.
type rootOptions struct {
	cfgFile string
	verbose bool
	quiet   bool
	watch   bool
}

// NewRootCommand builds the docgen command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docgen [flags] PATH...",
		Short: "Extract annotated comment blocks into an HTML document",
		Long: `docgen reads C and C++ sources and renders every documentation block
marked with "@type: <label>" as an HTML panel, together with the declaration
that follows it.

Directory arguments are expanded with the input.include and input.ignore
patterns. Files are read in argument order.

Examples:
  # Document two files to stdout
  docgen roj.hh roj.cc > index.html

  # Document a source tree into a file
  docgen -o docs/index.html src/

  # Regenerate whenever a source changes
  docgen --watch -o docs/index.html src/
`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is ./.docgen.yml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "only log errors and hide progress")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", logging.FormatConsole, "log format (console, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	f := cmd.Flags()
	f.StringP("output", "o", config.Stdout, "write the document to FILE ('-' for stdout)")
	f.String("title", "", "document title")
	f.String("stylesheet", "", "stylesheet href, empty to omit")
	f.String("script", "", "script src, empty to omit")
	f.StringSlice("include", nil, "glob patterns selecting files inside directory arguments")
	f.StringSlice("ignore", nil, "glob patterns skipped inside directory arguments")
	f.Bool("keep-separators", false, "keep the current block on a bare '*' comment line")
	f.BoolVarP(&opts.watch, "watch", "w", false, "regenerate the document when inputs change")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newAssetsCommand())

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for cmd: defaults, the
// config file, DOCGEN_* environment and the flags set on the command line.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	loaderOpts := []config.LoaderOption{config.WithFlags(cmd.Flags())}
	if opts.cfgFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.cfgFile))
	}

	cfg, err := config.NewLoader(rootDir, loaderOpts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	switch {
	case opts.verbose:
		cfg.Log.Level = "debug"
	case opts.quiet:
		cfg.Log.Level = "error"
	}
	return cfg, nil
}

// newLogger builds the stderr logger for cfg.
func newLogger(cmd *cobra.Command, cfg *config.Config) (zerolog.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.watch && cfg.ToStdout() {
		return ErrWatchNeedsOutput
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	// Progress goes to stderr and would interleave with a document on stdout
	progress := NewCLIProgressReporter(cmd.ErrOrStderr(), opts.quiet || cfg.ToStdout())

	gen := generator.New(generator.Options{
		Document:   cfg.DocumentOptions(),
		Classifier: cfg.ClassifierOptions(),
		Source:     cfg.SourceOptions(),
	}, progress)

	if opts.watch {
		return runWatch(ctx, gen, cfg, args)
	}

	if cfg.ToStdout() {
		_, err = gen.Generate(ctx, args, cmd.OutOrStdout())
		return err
	}
	_, err = writeFile(ctx, gen, args, cfg.Output.Path)
	return err
}
