package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reddwarf-io/reddwarf/database"
	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported sql dialects and their aggregate functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, d := range dbtypes.Dialects() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", d, strings.Join(database.AggregateFunctions(d), ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
