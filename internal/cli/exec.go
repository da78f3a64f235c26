package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database"
	"github.com/reddwarf-io/reddwarf/database/descriptor"
	"github.com/reddwarf-io/reddwarf/logger"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run a query description against the configured database",
		Long: `Run a query description against the configured database.

Select results are printed as one JSON object per line; mutations print the number
of affected rows. Every mutation runs in its own transaction.

Database settings come from the config file, config.<env>.yaml, DATABASE_* environment
variables and finally the --database-* flags.`,
		Example: `  reddwarf-sql exec --file query.yaml
  reddwarf-sql exec --file insert.yaml --database-type sqlite --database-path app.db`,
		Args: cobra.NoArgs,
		RunE: runExec,
	}

	cmd.Flags().StringP(flagFile, "f", "", "query description file (YAML or JSON)")
	cmd.Flags().StringP(flagConfig, "c", config.DefaultFile, "config file")
	cmd.Flags().Bool(flagInline, false, "render values as literals instead of bound parameters")
	cmd.Flags().String("database-type", "", "database type: mysql, clickhouse or sqlite")
	cmd.Flags().String("database-host", "", "database host")
	cmd.Flags().Int("database-port", 0, "database port")
	cmd.Flags().String("database-database", "", "database name")
	cmd.Flags().String("database-path", "", "sqlite database file")
	cmd.Flags().String("log-level", "", "log level")
	_ = cmd.MarkFlagRequired(flagFile)

	return cmd
}

func runExec(cmd *cobra.Command, _ []string) error {
	d, err := loadDescription(cmd)
	if err != nil {
		return err
	}

	cfgPath, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.LoadWithFlags(cfgPath, cmd.Flags())
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	}).WithFields(map[string]any{"app": cfg.App.Name, "env": cfg.App.Env})

	conn, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close database connection")
		}
	}()

	if d.Dialect != "" && d.Dialect != string(conn.Dialect()) {
		log.Warn().Str("description", d.Dialect).Str("connection", string(conn.Dialect())).
			Msg("Description dialect differs from the connection, using the connection dialect")
	}

	var opts []database.Option
	if inline, _ := cmd.Flags().GetBool(flagInline); inline {
		opts = append(opts, database.WithInlineLiterals())
	}
	store := database.NewStore(conn, log, opts...)

	ctx := logger.WithDBCounter(cmd.Context())
	start := time.Now()

	result, err := d.Execute(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to execute %s on %s: %w", d.Op, d.Table, err)
	}

	out := cmd.OutOrStdout()
	if d.Op == descriptor.OpSelect {
		enc := json.NewEncoder(out)
		for _, rec := range result.Records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
	} else if _, err := fmt.Fprintf(out, "rows affected: %d\n", result.RowsAffected); err != nil {
		return err
	}

	log.Info().
		Str("op", d.Op).
		Str("table", d.Table).
		Int64("db_calls", logger.GetDBCounter(ctx)).
		Dur("db_elapsed", time.Duration(logger.GetDBElapsed(ctx))).
		Dur("elapsed", time.Since(start)).
		Msg("Query description executed")

	return nil
}
