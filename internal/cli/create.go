package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/apps"
	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/scaffold"
)

func init() {
	createCmd.AddCommand(createAppCmd)
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold project pieces from built-in templates",
}

var createAppCmd = &cobra.Command{
	Use:   "app <name>",
	Short: "Scaffold a new application source",
	Long: `Scaffold a new application source file in the project's apps directory.
The file is named <name>.rs; the application builds at whatever address its
name sorts to.

Example:
  ` + branding.CLIName() + ` create app 03sleep`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !apps.ValidName(name) {
			return fmt.Errorf("invalid application name %q: must start with a letter, digit, or underscore and contain only letters, digits, underscores, and dashes", name)
		}

		p, root, err := loadProject()
		if err != nil {
			return err
		}

		data := &scaffold.Data{Name: name}
		result, err := scaffold.GenerateApp(data, p.AppsDir(root))
		if err != nil {
			return err
		}

		printScaffoldResult(cmd, "application "+name, result)

		fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
		fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit %s to implement the application\n", result.Files[0])
		fmt.Fprintf(cmd.OutOrStdout(), "  2. Run '%s build'\n", branding.CLIName())
		return nil
	},
}
