package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/apps"
	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/image"
	"github.com/stride-build/stride/internal/manifest"
)

var imageApps []string

func init() {
	imageCmd.Flags().StringArrayVar(&imageApps, "app", nil, "Convert only the named application (repeatable)")
	rootCmd.AddCommand(imageCmd)
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Convert built ELFs to flat binary images",
	Long: `Convert each built application ELF into a flat binary image next to it,
keeping only the allocatable sections. Requires an image section in the
manifest naming the directory that holds the built ELFs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, root, err := loadProject()
		if err != nil {
			return err
		}
		if p.Image == nil {
			return fmt.Errorf("no image section in %s; add image.dir pointing at the built ELFs", manifest.DefaultFileName)
		}

		list, err := apps.Discover(p.AppsDir(root))
		if err != nil {
			return err
		}
		selected, err := selectNames(list, imageApps)
		if err != nil {
			return err
		}

		imageDir := p.ImageDir(root)
		for _, a := range list {
			if selected != nil && !selected[a.Name] {
				continue
			}

			elfPath := filepath.Join(imageDir, a.Name)
			if _, err := os.Stat(elfPath); err != nil {
				return fmt.Errorf("no built ELF for %s at %s (run '%s build' first)", a.Name, elfPath, branding.CLIName())
			}

			outPath := elfPath + p.Image.Suffix
			if err := image.Write(elfPath, outPath); err != nil {
				return err
			}

			info, err := os.Stat(outPath)
			if err != nil {
				return fmt.Errorf("inspecting image %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", a.Name, outPath, info.Size())
		}
		return nil
	},
}

// selectNames validates a --app filter against the discovered applications.
// A nil map means no filter.
func selectNames(list []apps.App, only []string) (map[string]bool, error) {
	if len(only) == 0 {
		return nil, nil
	}
	selected := make(map[string]bool, len(only))
	for _, name := range only {
		if _, ok := apps.Find(list, name); !ok {
			return nil, fmt.Errorf("unknown application %q: have %v", name, apps.Names(list))
		}
		selected[name] = true
	}
	return selected, nil
}
