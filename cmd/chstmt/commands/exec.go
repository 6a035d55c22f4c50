package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/chstmt/connector"
	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
	"github.com/Konsultn-Engineering/chstmt/logging"
	"github.com/Konsultn-Engineering/chstmt/statement"
)

type execOptions struct {
	configPath   string
	provider     string
	dsn          string
	dialect      string
	params       []string
	types        []string
	readPrefixes []string
	timeout      time.Duration
	dryRun       bool
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec [flags] SQL",
		Short: "Bind parameters into a SQL template and run it",
		Long: `Bind parameters into a SQL template and run it.

Numeric keys bind positional ? placeholders in ascending order, other keys
bind :name placeholders:

    chstmt exec --param 0=5 --param name=foo \
        "SELECT * FROM t WHERE x = ? AND y = :name"

With --dry-run nothing is sent; the rewritten SQL and the dispatch path are
printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default .chstmt.yaml in . or ~/.config/chstmt)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Connection provider: "+fmt.Sprint(connector.Providers()))
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Connection string, overrides host settings")
	cmd.Flags().StringVar(&opts.dialect, "dialect", "", "Quoting dialect (default from config, clickhouse for --dry-run)")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Parameter binding key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.types, "type", "t", nil, "Declared parameter type key=integer|boolean|string|float|array|null (repeatable)")
	cmd.Flags().StringSliceVar(&opts.readPrefixes, "read-prefix", nil, "Extra leading keywords sent on the read path, e.g. with,explain")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Query timeout (default from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the rewritten SQL without connecting")

	return cmd
}

func runExec(cmd *cobra.Command, sql string, opts *execOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.dryRun {
		return runDryRun(ctx, cmd, sql, opts)
	}

	cfg, err := connector.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.provider != "" {
		cfg.Provider = opts.provider
	}
	if opts.dsn != "" {
		cfg.DSN = opts.dsn
	}
	if opts.dialect != "" {
		cfg.Dialect = opts.dialect
	}
	timeout := cfg.QueryTimeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	conn, err := connector.Open(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	stmt := statement.New(conn.Client(), sql, conn.Dialect(),
		statement.WithLogger(logging.Logger()),
		statement.WithReadPrefixes(opts.readPrefixes...))
	if err := bindFlags(stmt, opts.params, opts.types); err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cur, err := stmt.Execute(ctx, nil)
	if err != nil {
		return err
	}
	defer stmt.FreeResult()
	logging.Debug("pool", "stats", conn.Stats().String())

	return render(cmd.OutOrStdout(), cur)
}

func runDryRun(ctx context.Context, cmd *cobra.Command, sql string, opts *execOptions) error {
	name := opts.dialect
	if name == "" {
		name = "clickhouse"
	}
	d, err := dialect.Lookup(name)
	if err != nil {
		return err
	}

	client := database.NewMemoryClient()
	stmt := statement.New(client, sql, d,
		statement.WithLogger(logging.Logger()),
		statement.WithReadPrefixes(opts.readPrefixes...))
	if err := bindFlags(stmt, opts.params, opts.types); err != nil {
		return err
	}
	if _, err := stmt.Execute(ctx, nil); err != nil {
		return err
	}

	call, _ := client.LastCall()
	return renderDryRun(cmd.OutOrStdout(), call)
}
