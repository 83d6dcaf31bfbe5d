package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leengari/csvindex/internal/config"
	"github.com/leengari/csvindex/internal/engine"
	"github.com/leengari/csvindex/internal/logging"
)

// cli holds the state shared by the root command and its subcommands
type cli struct {
	stderr io.Writer

	// Global flags
	configPath string
	logLevel   string
	seqURL     string
	delimiter  string

	cfg         *config.Config
	logger      *slog.Logger
	closeLogger func()
}

// indexFlags are the flags of the root (index) command
type indexFlags struct {
	output     string
	column     string
	start      int
	onConflict string
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	c := &cli{stderr: stderr, closeLogger: func() {}}
	f := &indexFlags{}

	rootCmd := &cobra.Command{
		Use:   "csvindex [flags] <source.csv>",
		Short: "Append a sequential row index column to a CSV file",
		Long: `Reads a CSV file with a header row, appends an "index" column holding
each row's 1-based position, and writes the result back.

By default the source file is replaced. Use --output to write elsewhere.
The output is written to a temp file and renamed into place, so a failed
run never leaves a half-written file behind.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.closeLogger()
			return c.runIndex(cmd, args, f)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&c.seqURL, "seq-url", "", "also ship logs to this Seq endpoint")
	pf.StringVarP(&c.delimiter, "delimiter", "d", "", "CSV field delimiter (default \",\")")

	rootCmd.Flags().StringVarP(&f.output, "output", "o", "", "destination file (default: overwrite the source)")
	rootCmd.Flags().StringVar(&f.column, "column", "", "name of the index column (default \"index\")")
	rootCmd.Flags().IntVar(&f.start, "start", 1, "value of the first row's index")
	rootCmd.Flags().StringVar(&f.onConflict, "on-conflict", "", "when the column exists: replace, error or suffix (default \"replace\")")

	rootCmd.AddCommand(newHierarchyCmd(c))

	return rootCmd
}

// setup loads configuration and builds the logger. Flags override the file.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}
	if flags.Changed("seq-url") {
		cfg.Logging.SeqURL = c.seqURL
	}
	if flags.Changed("delimiter") {
		cfg.CSV.Delimiter = c.delimiter
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeFn, err := logging.SetupLogger(c.stderr, logging.Options{
		Level:  cfg.Logging.Level,
		SeqURL: cfg.Logging.SeqURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	c.cfg = cfg
	c.logger = logger
	c.closeLogger = closeFn
	return nil
}

func (c *cli) newEngine() (*engine.Engine, error) {
	opts, err := c.cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	eng := engine.New(opts, c.logger)
	eng.AddObserver(engine.NewLoggingObserver(c.logger))
	return eng, nil
}

func (c *cli) runIndex(cmd *cobra.Command, args []string, f *indexFlags) error {
	flags := cmd.Flags()
	if flags.Changed("column") {
		c.cfg.Index.Column = f.column
	}
	if flags.Changed("start") {
		c.cfg.Index.Start = f.start
	}
	if flags.Changed("on-conflict") {
		c.cfg.Index.OnConflict = f.onConflict
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	eng, err := c.newEngine()
	if err != nil {
		return err
	}

	_, err = eng.Run(cmd.Context(), engine.Job{
		Source:      args[0],
		Destination: f.output,
	})
	return err
}
