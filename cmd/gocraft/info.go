package main

import (
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
	"github.com/spf13/cobra"
)

var infoSize float64

var infoCmd = &cobra.Command{
	Use:   "info [file|cube|tetrahedron]",
	Short: "Display general information about a model",
	Long:  "Show vertex, face and edge counts, fold statistics, dimensions, edge lengths and the default unfolding of a model.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	infoCmd.Flags().Float64VarP(&infoSize, "size", "s", 50, "Edge length of primitives")
	rootCmd.AddCommand(infoCmd)
}

func formatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// printUnfoldInfo unfolds the model with the given options and reports the
// resulting islands and pages
func printUnfoldInfo(w io.Writer, m *mesh.Mesh, options papercraft.PaperOptions) {
	fmt.Fprintln(w, "Unfold:")
	p, err := papercraft.New(m, options)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Islands: %d\n", p.NumIslands())
	fmt.Fprintf(w, "  Pages: %d\n", p.Options().Pages)
}

func runInfo(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	m, err := loadMesh(name, infoSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	stats := m.Stats()

	fmt.Println("Model Information")
	fmt.Println("=================")
	fmt.Printf("Source: %s\n\n", name)

	fmt.Println("Mesh:")
	fmt.Printf("  Vertices: %d\n", stats.Vertices)
	fmt.Printf("  Faces: %d\n", stats.Faces)
	fmt.Printf("  Edges: %d (%d boundary)\n", stats.Edges, stats.BoundaryEdges)
	fmt.Printf("  Folds: %d mountain, %d valley, %d flat\n", stats.Mountain, stats.Valley, stats.FlatEdges)
	fmt.Printf("  Materials: %d\n", stats.Materials)
	fmt.Printf("  Surface Area: %.4f square units\n\n", stats.SurfaceArea)

	size := stats.BoundingBox.Size()
	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", formatVector(stats.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", formatVector(stats.BoundingBox.Max))
	fmt.Printf("  Size: %s\n\n", formatVector(size))

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.4f units\n", stats.MinEdgeLength)
	fmt.Printf("  Maximum: %.4f units\n", stats.MaxEdgeLength)
	fmt.Printf("  Average: %.4f units\n\n", stats.AvgEdgeLength)

	printUnfoldInfo(os.Stdout, m, cfg.Paper)
}
