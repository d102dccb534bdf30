package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long:  `Read and write user configuration stored at ~/.stride/config.yaml.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Printf("Set %s = %s\n", key, value)
		if !config.IsKnown(key) {
			fmt.Printf("Note: %s does not read %s; the value is stored but has no effect\n", branding.CLIName(), key)
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		fmt.Println(config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Long:  `List every configured key with its effective value, including known keys that are not set yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		values := config.All()
		known := config.Known()

		keys := make([]string, 0, len(values)+len(known))
		for key := range values {
			keys = append(keys, key)
		}
		for key := range known {
			if _, ok := values[key]; !ok {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tDESCRIPTION")
		for _, key := range keys {
			desc := known[key]
			if desc == "" {
				desc = "(stored; not read)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", key, values[key], desc)
		}
		return w.Flush()
	},
}
