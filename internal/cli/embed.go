package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stride-build/stride/internal/apps"
	"github.com/stride-build/stride/internal/branding"
	"github.com/stride-build/stride/internal/embedgen"
	"github.com/stride-build/stride/internal/manifest"
)

var embedOutputFlag string

func init() {
	embedCmd.Flags().StringVar(&embedOutputFlag, "output", "", "Write the stub to this path instead of embed.output")
	rootCmd.AddCommand(embedCmd)
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate the assembly stub that links applications into a kernel",
	Long: `Generate an assembly file that embeds every built application behind a
_num_app quadword table, for a loading kernel to copy applications to their
run addresses. Payload paths point at the built ELFs, or at the flat images
when embed.images is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, root, err := loadProject()
		if err != nil {
			return err
		}
		if p.Embed == nil {
			return fmt.Errorf("no embed section in %s; add embed.output", manifest.DefaultFileName)
		}
		if p.Image == nil {
			return fmt.Errorf("embed needs an image section to locate built artifacts")
		}

		list, err := apps.Discover(p.AppsDir(root))
		if err != nil {
			return err
		}

		outPath := p.EmbedOutput(root)
		if embedOutputFlag != "" {
			outPath, err = filepath.Abs(embedOutputFlag)
			if err != nil {
				return fmt.Errorf("resolving output path: %w", err)
			}
		}
		outDir := filepath.Dir(outPath)

		imageDir := p.ImageDir(root)
		images := make([]embedgen.AppImage, 0, len(list))
		for i, a := range list {
			payload := filepath.Join(imageDir, a.Name)
			hint := "build"
			if p.Embed.Images {
				payload += p.Image.Suffix
				hint = "image"
			}
			if _, err := os.Stat(payload); err != nil {
				return fmt.Errorf("no built artifact for %s at %s (run '%s %s' first)", a.Name, payload, branding.CLIName(), hint)
			}

			// .incbin paths are relative to the stub so the generated file
			// can be committed alongside the kernel sources.
			rel, err := filepath.Rel(outDir, payload)
			if err != nil {
				rel = payload
			}
			images = append(images, embedgen.AppImage{Index: i, Name: a.Name, Path: filepath.ToSlash(rel)})
		}

		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", outDir, err)
		}
		if err := embedgen.WriteFile(outPath, images); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d application(s) in %s\n", len(images), outPath)
		return nil
	},
}
