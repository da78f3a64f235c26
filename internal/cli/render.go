package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reddwarf-io/reddwarf/database"
	"github.com/reddwarf-io/reddwarf/database/descriptor"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
	"github.com/reddwarf-io/reddwarf/validation"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL a query description renders to",
		Example: `  # Bound parameters for MySQL
  reddwarf-sql render --file query.yaml

  # Literal values inlined, ClickHouse dialect
  reddwarf-sql render --file query.yaml --dialect clickhouse --inline

  # Machine readable
  reddwarf-sql render --file query.yaml --output json`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}

	cmd.Flags().StringP(flagFile, "f", "", "query description file (YAML or JSON)")
	cmd.Flags().String(flagDialect, "", "sql dialect: mysql or clickhouse (default: the description's dialect, then mysql)")
	cmd.Flags().Bool(flagInline, false, "render values as literals instead of bound parameters")
	cmd.Flags().StringP(flagOutput, "o", outputText, "output format: text or json")
	_ = cmd.MarkFlagRequired(flagFile)

	_ = cmd.RegisterFlagCompletionFunc(flagDialect, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(dbtypes.MySQL), string(dbtypes.ClickHouse)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	d, err := loadDescription(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString(flagDialect)
	if name == "" {
		name = d.Dialect
	}
	dialect, err := dbtypes.ParseDialect(name)
	if err != nil {
		return err
	}

	var opts []database.Option
	if inline, _ := cmd.Flags().GetBool(flagInline); inline {
		opts = append(opts, database.WithInlineLiterals())
	}

	rendered, err := d.Render(database.NewStatementBuilder(dialect, opts...))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", d.Op, err)
	}

	format, _ := cmd.Flags().GetString(flagOutput)
	return writeRendered(cmd.OutOrStdout(), format, rendered)
}

func loadDescription(cmd *cobra.Command) (*descriptor.Descriptor, error) {
	path, _ := cmd.Flags().GetString(flagFile)
	d, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(validation.NewValidator()); err != nil {
		return nil, err
	}
	return d, nil
}

func writeRendered(w io.Writer, format string, r descriptor.Rendered) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case outputText, "":
		if r.SQL == "" {
			_, err := fmt.Fprintln(w, "-- nothing to execute")
			return err
		}
		if _, err := fmt.Fprintln(w, r.SQL); err != nil {
			return err
		}
		if len(r.Args) > 0 {
			if err := writeArgs(w, "args", r.Args); err != nil {
				return err
			}
		}
		for i, row := range r.Batch {
			if err := writeArgs(w, fmt.Sprintf("row %d", i+1), row); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: %s, %s)", format, outputText, outputJSON)
	}
}

func writeArgs(w io.Writer, label string, args []any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "-- %s: %s\n", label, data)
	return err
}
