package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tordrt/schemalive"
	"github.com/tordrt/schemalive/internal/config"
	"github.com/tordrt/schemalive/internal/snapshot"
)

var (
	configPath    string
	dbURL         string
	connection    string
	tables        string
	excludeTables string
	schemaName    string
	inspector     string
	namespace     string
	models        string
	format        string
	outputFile    string
	outputDir     string
	verbose       bool
	noColor       bool
)

var rootCmd = &cobra.Command{
	Use:   "schemalive",
	Short: "Infer model configuration from a database schema",
	Long: `Schemalive reads the schema of a PostgreSQL, MySQL or SQLite database and derives
the model configuration of every table: fillable, guarded and hidden fields, casts,
validation rules, default attributes and the relationships between tables.`,
	SilenceUsage: true,
	RunE:         runBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the model configuration of every configured connection",
	RunE:  runBuild,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Write a YAML snapshot of a database schema",
	Long: `Inspect extracts the schema of one connection and writes it as a YAML snapshot.
A snapshot can be built later without the database through a snapshot://path URL.`,
	RunE: runInspect,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file or directory containing schemalive.yaml (default: current directory)")
	pf.StringVarP(&dbURL, "url", "u", "", "Database URL (postgres://, mysql://, sqlite:// or snapshot://); overrides configured connections")
	pf.StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	pf.StringVar(&excludeTables, "exclude-tables", "", "Tables to leave out (comma-separated, optional)")
	pf.StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the DSN database for MySQL)")
	pf.StringVar(&inspector, "inspector", "", "Schema inspector: native or atlas (default: native)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log inference decisions to stderr")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored status output")

	for _, cmd := range []*cobra.Command{rootCmd, buildCmd} {
		cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace prefixed to model class references")
		cmd.Flags().StringVarP(&models, "models", "m", "", "Existing model names (comma-separated); other targets are left unresolved")
		cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json or yaml (default: text)")
		cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
		cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	}

	inspectCmd.Flags().StringVar(&connection, "connection", "", "Connection to inspect when several are configured")
	inspectCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Snapshot file (default: stdout)")

	rootCmd.AddCommand(buildCmd, inspectCmd)
}

// loadConfig reads the configuration and applies the flags set on the command line
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if dbURL != "" {
		cfg.Connections = map[string]string{config.DefaultConnection: dbURL}
	}
	if flags.Changed("tables") {
		cfg.Tables = parseTableList(tables)
	}
	if flags.Changed("exclude-tables") {
		cfg.ExcludeTables = parseTableList(excludeTables)
	}
	if flags.Changed("schema") {
		cfg.SchemaName = schemaName
	}
	if flags.Changed("inspector") {
		cfg.Inspector = inspector
	}
	if flags.Changed("namespace") {
		cfg.Namespace = namespace
	}
	if flags.Changed("models") {
		cfg.Models = parseTableList(models)
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("output") {
		cfg.Output.File = outputFile
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Connections) == 0 {
		return nil, fmt.Errorf("no database configured: pass --url, set DATABASE_URL or add connections to schemalive.yaml")
	}
	return cfg, nil
}

func extractOptions(cfg *config.Config, logger *zap.Logger) *schemalive.Options {
	return &schemalive.Options{
		Tables:        cfg.Tables,
		ExcludeTables: cfg.ExcludeTables,
		SchemaName:    cfg.SchemaName,
		Namespace:     cfg.Namespace,
		Models:        cfg.Models,
		Inspector:     cfg.Inspector,
		Logger:        logger,
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zc.Encoding = "console"
	return zc.Build()
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	set, err := schemalive.BuildAll(ctx, cfg.Connections, extractOptions(cfg, logger))
	if err != nil {
		return err
	}

	for _, name := range set.Connections() {
		c := set[name]
		status(cmd.ErrOrStderr(), "built %s: %d tables, %d relationships", name, len(c.Fields), c.RelationshipCount())
	}

	// Single-file output
	var writer io.Writer = cmd.OutOrStdout()
	if cfg.Output.File != "" {
		f, err := os.Create(cfg.Output.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		writer = f
	}

	err = schemalive.FormatConfiguration(set, &schemalive.OutputOptions{
		Writer:    writer,
		OutputDir: cfg.Output.Dir,
		Format:    cfg.Output.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name, url, err := pickConnection(cfg, connection)
	if err != nil {
		return err
	}

	s, err := schemalive.ExtractSchema(ctx, url, extractOptions(cfg, nil))
	if err != nil {
		return fmt.Errorf("failed to extract schema: %w", err)
	}

	if cfg.Output.File != "" {
		if err := snapshot.Save(cfg.Output.File, s); err != nil {
			return err
		}
	} else if err := snapshot.Write(cmd.OutOrStdout(), s); err != nil {
		return err
	}

	status(cmd.ErrOrStderr(), "inspected %s: %d tables", name, len(s.Tables))
	return nil
}

// pickConnection returns the named connection, or the only one configured
func pickConnection(cfg *config.Config, name string) (string, string, error) {
	if name != "" {
		url, ok := cfg.Connections[name]
		if !ok {
			return "", "", fmt.Errorf("unknown connection: %s", name)
		}
		return name, url, nil
	}

	names := cfg.ConnectionNames()
	if len(names) != 1 {
		return "", "", fmt.Errorf("several connections configured (%s); choose one with --connection", strings.Join(names, ", "))
	}
	return names[0], cfg.Connections[names[0]], nil
}

func status(w io.Writer, msg string, args ...any) {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	_, _ = green.Fprintf(w, "✓ "+msg+"\n", args...)
}

// parseTableList splits a comma-separated list, dropping blanks
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
