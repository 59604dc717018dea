package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
	"github.com/spf13/cobra"
)

var (
	edgesCount    int
	edgesSize     float64
	edgesLongest  bool
	edgesCutOnly  bool
	edgesFoldOnly bool
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file|cube|tetrahedron]",
	Short: "List the edges of the unfolded model",
	Long: `List edges with their faces, length, fold direction and whether the default
unfold cuts or joins them. The edge ids are the ones accepted by unfold --cut.`,
	Args: cobra.ExactArgs(1),
	Run:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 20, "Number of edges to display (0 shows all)")
	edgesCmd.Flags().Float64VarP(&edgesSize, "size", "s", 50, "Edge length of primitives")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Sort by length, longest first")
	edgesCmd.Flags().BoolVar(&edgesCutOnly, "cut", false, "Only show cut edges")
	edgesCmd.Flags().BoolVar(&edgesFoldOnly, "folds", false, "Only show joined edges")
}

type edgeRow struct {
	id     int
	faces  [2]int
	length float64
	fold   mesh.FoldKind
	angle  float64
	state  papercraft.EdgeState
}

func edgeRows(p *papercraft.Project) []edgeRow {
	m := p.Mesh()
	rows := make([]edgeRow, 0, m.NumEdges())
	for e := 0; e < m.NumEdges(); e++ {
		edge := m.Edge(e)
		state := p.EdgeState(e)
		if edgesCutOnly && state.Status != papercraft.Cut {
			continue
		}
		if edgesFoldOnly && state.Status != papercraft.Joined {
			continue
		}
		rows = append(rows, edgeRow{
			id:     e,
			faces:  edge.Faces,
			length: m.EdgeLength(e),
			fold:   edge.Fold(),
			angle:  edge.Angle,
			state:  state,
		})
	}
	if edgesLongest {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].length > rows[j].length
		})
	}
	return rows
}

func runEdges(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	m, err := loadMesh(name, edgesSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	p, err := papercraft.New(m, cfg.Paper)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error unfolding model: %v\n", err)
		os.Exit(1)
	}

	rows := edgeRows(p)
	total := len(rows)
	if edgesCount > 0 && len(rows) > edgesCount {
		rows = rows[:edgesCount]
	}

	fmt.Printf("Edges (showing %d of %d)\n", len(rows), total)
	fmt.Println("====================")
	fmt.Printf("%-6s %-12s %-12s %-10s %-9s %-8s %s\n", "Edge", "Faces", "Length", "Fold", "Angle", "Status", "Flap")
	fmt.Println("--------------------------------------------------------------------------")
	for _, r := range rows {
		faces := fmt.Sprintf("%d", r.faces[0])
		if r.faces[1] != mesh.NoFace {
			faces = fmt.Sprintf("%d/%d", r.faces[0], r.faces[1])
		}
		flap := ""
		if r.state.Flap {
			flap = "yes"
		}
		fmt.Printf("%-6d %-12s %-12.4f %-10s %-9.1f %-8s %s\n",
			r.id, faces, r.length, r.fold, r.angle*180/math.Pi, r.state.Status, flap)
	}
}
