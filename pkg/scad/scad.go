// Package scad turns OpenSCAD sources into meshes by running the openscad
// binary and reading back the STL it writes
package scad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/stl"
)

// ErrNotInstalled is returned when openscad is not in PATH
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

var dependencyRegex = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Binary is the openscad executable looked up in PATH
var Binary = "openscad"

// Render runs openscad on scadFile and writes the result to stlFile
func Render(ctx context.Context, scadFile, stlFile string) error {
	if _, err := exec.LookPath(Binary); err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, Binary, "-o", stlFile, scadFile)
	cmd.Dir = filepath.Dir(scadFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("failed to render %s: %w: %s", scadFile, err, msg)
		}
		return fmt.Errorf("failed to render %s: %w", scadFile, err)
	}
	return nil
}

// Load renders scadFile into a temporary STL and welds it into a mesh
func Load(ctx context.Context, scadFile string) (*mesh.Mesh, error) {
	dir, err := os.MkdirTemp("", "gocraft-scad-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))+".stl")
	if err := Render(ctx, scadFile, out); err != nil {
		return nil, err
	}
	model, err := stl.Parse(out)
	if err != nil {
		return nil, err
	}
	return model.Mesh()
}

// Dependencies returns scadFile followed by every file it pulls in through
// use or include, transitively and without repeats
func Dependencies(scadFile string) ([]string, error) {
	abs, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, err
	}
	visited := make(map[string]bool)
	var deps []string
	if err := collect(abs, visited, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func collect(file string, visited map[string]bool, deps *[]string) error {
	if visited[file] {
		return nil
	}
	visited[file] = true
	*deps = append(*deps, file)

	direct, err := parseDependencies(file)
	if err != nil {
		return err
	}
	for _, dep := range direct {
		if err := collect(dep, visited, deps); err != nil {
			return err
		}
	}
	return nil
}

func parseDependencies(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	dir := filepath.Dir(file)
	var deps []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyRegex.FindStringSubmatch(line); m != nil {
			deps = append(deps, filepath.Clean(filepath.Join(dir, m[1])))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	return deps, nil
}
