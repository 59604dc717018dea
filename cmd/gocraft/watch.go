package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/gocraft/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-export the pages whenever the model changes",
	Long: `Unfold a model file and export its pages like unfold, then watch the model,
its material libraries and textures and export again after every change.`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&unfoldOutput, "output", "o", ".", "Output directory")
	watchCmd.Flags().StringVar(&unfoldPrefix, "prefix", "page-", "File name prefix of the exported pages")
	watchCmd.Flags().Float64Var(&unfoldScale, "scale", 0, "Millimetres per model unit (0 keeps the configured scale)")
	watchCmd.Flags().BoolVarP(&unfoldLandscape, "landscape", "l", false, "Swap page width and height")
	watchCmd.Flags().BoolVar(&unfoldNoTextures, "no-textures", false, "Do not draw textures")
	watchCmd.Flags().BoolVar(&unfoldSingleFile, "single-file", false, "Write all pages into one multipage Inkscape SVG")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	reexport := func() {
		m, err := loadMesh(name, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
			return
		}
		p, err := unfold(m, paperOptions(cfg.Paper), nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error unfolding model: %v\n", err)
			return
		}
		written, err := writePages(p, unfoldOutput, unfoldPrefix, unfoldSingleFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing pages: %v\n", err)
			return
		}
		fmt.Printf("Exported %d islands on %d pages to %d files\n", p.NumIslands(), p.Options().Pages, len(written))
	}

	w, err := watcher.New(cfg.Watch.Debounce(), func(changed []string) {
		fmt.Printf("Changed: %v\n", changed)
		reexport()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sources, err := modelSources(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading model: %v\n", err)
		os.Exit(1)
	}
	if err := w.Add(sources...); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching files: %v\n", err)
		os.Exit(1)
	}

	reexport()
	fmt.Printf("Watching %d files, press Ctrl+C to stop\n", len(w.Files()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
