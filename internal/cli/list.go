package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/apps"
	"github.com/stride-build/stride/internal/layout"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications and their assigned addresses",
	Long:  `List the project's applications in build order with the load address each one receives.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one application for display.
type listEntry struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Address string `json:"address"`
}

func runList(cmd *cobra.Command, args []string) error {
	p, root, err := loadProject()
	if err != nil {
		return err
	}

	list, err := apps.Discover(p.AppsDir(root))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No applications found.")
		return nil
	}

	l := layout.Layout{Base: uint64(p.Layout.BaseAddress), Step: uint64(p.Layout.Step)}
	assignments, err := l.Assign(list)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(assignments))
	for _, a := range assignments {
		entries = append(entries, listEntry{
			Name:    a.App.Name,
			File:    a.App.FileName,
			Address: a.Hex(),
		})
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tFILE\tADDRESS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.File, e.Address)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
