package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocraft/internal/config"
	"github.com/philipparndt/gocraft/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "gocraft",
	Short: "Unfold 3D models into printable papercraft sheets",
	Long: `gocraft unfolds polyhedral OBJ and STL models into flat islands of faces,
lays them out on printable pages with glue flaps and fold lines, and exports
the pages as SVG. The serve command exposes the same edits over HTTP.`,
	Version: version.GetFullVersion(),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
