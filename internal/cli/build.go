package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/driver"
)

var (
	buildApps      []string
	buildKeepGoing bool
)

func init() {
	buildCmd.Flags().StringArrayVar(&buildApps, "app", nil, "Build only the named application (repeatable)")
	buildCmd.Flags().BoolVar(&buildKeepGoing, "keep-going", false, "Continue with remaining applications after a failed build")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every application at its assigned address",
	Long: `Build the project's applications in name order. For each application the
shared linker script is patched to that application's load address, the build
tool runs, and the script is restored before the next application starts.

Filtering with --app changes which applications are built, never which
addresses they receive: an application keeps the address of its position in
the full sorted list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, root, err := loadProject()
		if err != nil {
			return err
		}

		b := newBuilder(p, root)
		start := time.Now()
		report, err := driver.Run(cmd.Context(), p, root, b, driver.Options{
			KeepGoing: buildKeepGoing,
			Only:      buildApps,
			Out:       cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Built %d application(s) in %s\n",
			len(report.Results), time.Since(start).Round(time.Millisecond))
		return nil
	},
}
