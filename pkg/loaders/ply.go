package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
	HasNormals  bool
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the geometry loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3 // Per-vertex normals, empty if not present
	Faces    []int       // Triangle indices, 3 per triangle
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY reads an ascii, binary little-endian or binary big-endian PLY
// stream. Polygons with more than three corners are split into fans.
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var elements plyElementReader
	switch header.Format {
	case "ascii":
		elements = &asciiReader{scanner: bufio.NewScanner(reader)}
	case "binary_little_endian":
		elements = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		elements = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("PLY format %q: %w", header.Format, ErrUnsupportedFormat)
	}

	data, err := readPLYElements(elements, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader parses the PLY header, leaving the reader at the first byte
// of element data
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic: %w", ErrMalformed)
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", ErrMalformed)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q: %w", line, ErrMalformed)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count %q: %w", parts[2], ErrMalformed)
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("element %q: %w", currentElement, ErrUnsupportedFormat)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				if prop.Name == "nx" || prop.Name == "ny" || prop.Name == "nz" {
					header.HasNormals = true
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition: %w", ErrMalformed)
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition: %w", ErrMalformed)
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	for _, t := range []string{prop.Type, prop.ListType, prop.DataType} {
		if t != "" && getTypeSize(t) == 0 {
			return PLYProperty{}, fmt.Errorf("property type %q: %w", t, ErrUnsupportedFormat)
		}
	}
	return prop, nil
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyElementReader reads scalar values in file order
type plyElementReader interface {
	readValue(dataType string) (float64, error)
}

// readPLYElements reads the vertex element followed by the face element
func readPLYElements(elements plyElementReader, header *PLYHeader) (*PLYData, error) {
	data := &PLYData{
		Vertices: make([]core.Vec3, 0, header.VertexCount),
		Faces:    make([]int, 0, header.FaceCount*3), // Assuming triangular faces
	}
	if header.HasNormals {
		data.Normals = make([]core.Vec3, 0, header.VertexCount)
	}

	values := make(map[string]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for _, prop := range header.VertexProps {
			if prop.IsList {
				if _, err := readList(elements, prop); err != nil {
					return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
				}
				continue
			}
			value, err := elements.readValue(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			values[prop.Name] = value
		}

		data.Vertices = append(data.Vertices, core.NewVec3(values["x"], values["y"], values["z"]))
		if header.HasNormals {
			data.Normals = append(data.Normals, core.NewVec3(values["nx"], values["ny"], values["nz"]))
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := elements.readValue(prop.Type); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			indices, err := readList(elements, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(indices) < 3 {
				return nil, fmt.Errorf("face %d has %d vertices: %w", i, len(indices), ErrMalformed)
			}

			for k := 1; k+1 < len(indices); k++ {
				for _, index := range []float64{indices[0], indices[k], indices[k+1]} {
					if index < 0 || int(index) >= header.VertexCount {
						return nil, fmt.Errorf("face %d references vertex %v of %d: %w", i, index, header.VertexCount, ErrMalformed)
					}
					data.Faces = append(data.Faces, int(index))
				}
			}
		}
	}

	return data, nil
}

// readList reads a count followed by that many values
func readList(elements plyElementReader, prop PLYProperty) ([]float64, error) {
	count, err := elements.readValue(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count != math.Trunc(count) {
		return nil, fmt.Errorf("invalid list length %v: %w", count, ErrMalformed)
	}

	values := make([]float64, int(count))
	for i := range values {
		if values[i], err = elements.readValue(prop.DataType); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// asciiReader reads whitespace separated values
type asciiReader struct {
	scanner *bufio.Scanner
	fields  []string
}

func (a *asciiReader) readValue(dataType string) (float64, error) {
	for len(a.fields) == 0 {
		if !a.scanner.Scan() {
			if err := a.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("unexpected end of data: %w", ErrMalformed)
		}
		a.fields = strings.Fields(a.scanner.Text())
	}

	field := a.fields[0]
	a.fields = a.fields[1:]
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", dataType, field, ErrMalformed)
	}
	return value, nil
}

// binaryReader reads fixed size values in the given byte order
type binaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryReader) readValue(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("data type %q: %w", dataType, ErrUnsupportedFormat)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.reader, raw); err != nil {
		return 0, fmt.Errorf("reading %s: %w", dataType, err)
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "char", "int8":
		return float64(int8(raw[0])), nil
	default: // uchar, uint8
		return float64(raw[0]), nil
	}
}

// ToMesh converts the PLY data to a mesh with a single material
func (d *PLYData) ToMesh(name string, mat material.Phong) geometry.Mesh {
	mesh := geometry.Mesh{
		Name:      name,
		Vertices:  make([]geometry.Vertex, len(d.Vertices)),
		Triangles: make([][3]int, 0, len(d.Faces)/3),
		Material:  mat,
	}
	for i, p := range d.Vertices {
		mesh.Vertices[i].Position = p
		if i < len(d.Normals) {
			mesh.Vertices[i].Normal = d.Normals[i]
		}
	}
	for i := 0; i+2 < len(d.Faces); i += 3 {
		mesh.Triangles = append(mesh.Triangles, [3]int{d.Faces[i], d.Faces[i+1], d.Faces[i+2]})
	}
	return mesh
}
