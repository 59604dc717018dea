package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// binaryFacetSize is normal + three vertices as float32 plus the attribute word
const binaryFacetSize = 50

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var size int64 = -1
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}
	return parse(bufio.NewReader(file), size)
}

// ParseReader reads an STL model from r
func ParseReader(r io.Reader) (*Model, error) {
	return parse(bufio.NewReader(r), -1)
}

func parse(r *bufio.Reader, size int64) (*Model, error) {
	header, err := r.Peek(84)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if isASCII(header, size) {
		return parseASCII(r)
	}
	return parseBinary(r)
}

// isASCII checks the "solid" keyword. Some binary exporters also start
// their header with "solid", so a header whose facet count matches the file
// size is treated as binary.
func isASCII(header []byte, size int64) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(header, " \t\r\n"), []byte("solid")) {
		return false
	}
	if len(header) == 84 && size > 0 {
		count := int64(binary.LittleEndian.Uint32(header[80:84]))
		if 84+count*binaryFacetSize == size {
			return false
		}
	}
	return true
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var normal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet", lineNo)
			}
			v, err := parseVector(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: facet normal: %w", lineNo, err)
			}
			normal = v
			vertices = vertices[:0]

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", lineNo)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices", lineNo, len(vertices))
			}
			model.AddFacet(normal, geometry.NewTriangle(vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// parseBinary parses a binary STL file
func parseBinary(reader io.Reader) (*Model, error) {
	model := NewModel("")

	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	model.Name = strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	var count uint32
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	facet := make([]byte, binaryFacetSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(reader, facet); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		var v [4]geometry.Vector3
		for j := range v {
			v[j] = geometry.NewVector3(
				float64(readFloat32(facet[j*12:])),
				float64(readFloat32(facet[j*12+4:])),
				float64(readFloat32(facet[j*12+8:])),
			)
		}
		model.AddFacet(v[0], geometry.NewTriangle(v[1], v[2], v[3]))
	}
	return model, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
