package main

import (
	"fmt"
	"os"
	"time"

	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
	"github.com/spf13/cobra"
)

var (
	unfoldOutput     string
	unfoldPrefix     string
	unfoldSize       float64
	unfoldScale      float64
	unfoldTabWidth   float64
	unfoldTabAngle   float64
	unfoldLandscape  bool
	unfoldNoTextures bool
	unfoldCuts       []int
	unfoldPreview    string
	unfoldSingleFile bool
)

var unfoldCmd = &cobra.Command{
	Use:   "unfold [file|cube|tetrahedron]",
	Short: "Unfold a model and export the pages as SVG",
	Long: `Unfold a model into islands, pack them onto pages and write one SVG per page,
or one multipage Inkscape SVG with --single-file.
Paper defaults come from the configuration file; flags override them.`,
	Args: cobra.ExactArgs(1),
	Run:  runUnfold,
}

func init() {
	unfoldCmd.Flags().StringVarP(&unfoldOutput, "output", "o", ".", "Output directory")
	unfoldCmd.Flags().StringVar(&unfoldPrefix, "prefix", "page-", "File name prefix of the exported pages")
	unfoldCmd.Flags().Float64VarP(&unfoldSize, "size", "s", 50, "Edge length of primitives")
	unfoldCmd.Flags().Float64Var(&unfoldScale, "scale", 0, "Millimetres per model unit (0 keeps the configured scale)")
	unfoldCmd.Flags().Float64Var(&unfoldTabWidth, "tab-width", -1, "Flap width in millimetres (-1 keeps the configured width)")
	unfoldCmd.Flags().Float64Var(&unfoldTabAngle, "tab-angle", 0, "Flap side angle in degrees (0 keeps the configured angle)")
	unfoldCmd.Flags().BoolVarP(&unfoldLandscape, "landscape", "l", false, "Swap page width and height")
	unfoldCmd.Flags().BoolVar(&unfoldNoTextures, "no-textures", false, "Do not draw textures")
	unfoldCmd.Flags().IntSliceVar(&unfoldCuts, "cut", nil, "Additional edges to cut before packing")
	unfoldCmd.Flags().StringVarP(&unfoldPreview, "preview", "p", "", "Also write a PNG of the model tinted by island")
	unfoldCmd.Flags().BoolVar(&unfoldSingleFile, "single-file", false, "Write all pages into one multipage Inkscape SVG")
	rootCmd.AddCommand(unfoldCmd)
}

// paperOptions applies the unfold flags to the configured paper defaults
func paperOptions(base papercraft.PaperOptions) papercraft.PaperOptions {
	options := base
	if unfoldScale > 0 {
		options.Scale = unfoldScale
	}
	if unfoldTabWidth >= 0 {
		options.TabWidth = unfoldTabWidth
	}
	if unfoldTabAngle > 0 {
		options.TabAngle = unfoldTabAngle
	}
	if unfoldLandscape {
		options.PageSize[0], options.PageSize[1] = options.PageSize[1], options.PageSize[0]
	}
	if unfoldNoTextures {
		options.Textures = false
	}
	return options
}

// unfold builds the project and applies the requested cuts
func unfold(m *mesh.Mesh, options papercraft.PaperOptions, cuts []int) (*papercraft.Project, error) {
	p, err := papercraft.New(m, options)
	if err != nil {
		return nil, err
	}
	if len(cuts) == 0 {
		return p, nil
	}
	for _, e := range cuts {
		if _, err := p.Cut(e, nil); err != nil {
			return nil, err
		}
	}
	if _, err := p.Pack(); err != nil {
		return nil, err
	}
	return p, nil
}

func runUnfold(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	m, err := loadMesh(name, unfoldSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	p, err := unfold(m, paperOptions(cfg.Paper), unfoldCuts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error unfolding model: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Unfolded %d faces into %d islands on %d pages in %v\n",
		m.NumFaces(), p.NumIslands(), p.Options().Pages, time.Since(start))

	written, err := writePages(p, unfoldOutput, unfoldPrefix, unfoldSingleFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing pages: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}

	if unfoldPreview != "" {
		if err := writePreview(p, unfoldPreview); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing preview: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %s\n", unfoldPreview)
	}
}
