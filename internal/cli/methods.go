package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Fuabioo/zipdir/internal/archive"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List compression method candidates",
	Long: `Lists the configured compression method candidates in priority order,
whether each one is compiled into this build, and which one an archive run
would select.`,
	Args: cobra.NoArgs,
	RunE: runMethods,
}

func init() {
	methodsCmd.Flags().StringSliceP("method", "m", nil, "Compression method candidates in priority order")
}

func runMethods(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	candidates, err := cfg.Candidates()
	if err != nil {
		return err
	}

	infos := archive.Describe(candidates)

	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
			"methods": infos,
		})
	}

	if len(infos) == 0 {
		if !flagQuiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No candidates configured")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tNAME\tID\tAVAILABLE\tSELECTED")
	for _, info := range infos {
		selected := ""
		if info.Selected {
			selected = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%t\t%s\n", info.Priority, info.Name, info.ID, info.Available, selected)
	}
	return w.Flush()
}
