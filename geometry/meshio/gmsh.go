package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/goform/geometry"
)

// gmshElementType maps the Gmsh 2.2 simplex element types to their dimension
var gmshElementType = map[int]int{
	15: 0, // Point
	1:  1, // Line
	2:  2, // Triangle
	4:  3, // Tetrahedron
}

// gmshType is the Gmsh element type of a simplex of each dimension
var gmshType = []int{15, 1, 2, 4}

type gmshReader struct {
	raw     rawMesh
	nodeIdx map[int]int // Gmsh node ID to vertex index
}

// readGmsh22 reads the ASCII Gmsh 2.2 format. The first tag of an element is its attribute.
func readGmsh22(r io.Reader) (*geometry.Mesh, error) {
	scanner := bufio.NewScanner(r)

	// Increase scanner buffer for large files
	const maxScanTokenSize = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)

	gr := &gmshReader{nodeIdx: make(map[int]int)}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch line {
		case "$MeshFormat":
			err = readMeshFormat(scanner)
		case "$Nodes":
			err = gr.readNodes(scanner)
		case "$Elements":
			err = gr.readElements(scanner)
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = skipSection(scanner, "$End"+line[1:])
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	return gr.raw.build()
}

// readMeshFormat reads the MeshFormat section
func readMeshFormat(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2") {
		return fmt.Errorf("unsupported Gmsh version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	return skipSection(scanner, "$EndMeshFormat")
}

// readNodes reads the Nodes section
func (gr *gmshReader) readNodes(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid number of nodes: %v", err)
	}

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Nodes at node %d", i)
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return fmt.Errorf("invalid node entry at line %d", i+1)
		}

		nodeID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("invalid node ID: %v", err)
		}

		coords := make([]float64, 3)
		for j := 0; j < 3; j++ {
			coords[j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return fmt.Errorf("invalid coordinate: %v", err)
			}
		}

		gr.nodeIdx[nodeID] = len(gr.raw.vertices)
		gr.raw.vertices = append(gr.raw.vertices, coords)
	}
	return skipSection(scanner, "$EndNodes")
}

// readElements reads the Elements section
func (gr *gmshReader) readElements(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElems, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid number of elements: %v", err)
	}

	for i := 0; i < numElems; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Elements at element %d", i)
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return fmt.Errorf("invalid element entry at line %d", i+1)
		}

		elemType, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid element type: %v", err)
		}
		dim, ok := gmshElementType[elemType]
		if !ok {
			return fmt.Errorf("unsupported Gmsh element type %d, only linear simplices are supported", elemType)
		}

		numTags, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid number of tags: %v", err)
		}
		startIdx := 3 + numTags
		if len(fields) != startIdx+dim+1 {
			return fmt.Errorf("element entry at line %d has %d fields, expected %d", i+1, len(fields), startIdx+dim+1)
		}

		attr := geometry.DefaultAttribute
		if numTags > 0 {
			if attr, err = strconv.Atoi(fields[3]); err != nil {
				return fmt.Errorf("invalid tag: %v", err)
			}
		}

		verts := make([]int, dim+1)
		for j := range verts {
			nodeID, err := strconv.Atoi(fields[startIdx+j])
			if err != nil {
				return fmt.Errorf("invalid node ID: %v", err)
			}
			if verts[j], ok = gr.nodeIdx[nodeID]; !ok {
				return fmt.Errorf("element entry at line %d references missing node %d", i+1, nodeID)
			}
		}
		gr.raw.addCell(attr, verts)
	}
	return skipSection(scanner, "$EndElements")
}

// skipSection advances past the end marker of a section
func skipSection(scanner *bufio.Scanner, endMarker string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF looking for %s", endMarker)
}

func writeGmsh22(w io.Writer, m *geometry.Mesh) error {
	fmt.Fprintf(w, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	fmt.Fprintf(w, "$Nodes\n%d\n", m.VertexCount())
	for i, x := range m.Vertices {
		coords := make([]float64, 3)
		copy(coords, x)
		fmt.Fprintf(w, "%d ", i+1)
		writeFloats(w, coords)
	}
	fmt.Fprintf(w, "$EndNodes\n")

	faces := taggedFaces(m)
	fmt.Fprintf(w, "$Elements\n%d\n", len(faces)+m.ElementCount())
	id := 1
	for _, f := range faces {
		attr := m.FaceAttributes[f]
		fmt.Fprintf(w, "%d %d 2 %d %d", id, gmshType[m.Dim-1], attr, attr)
		writeInts(w, m.FToV[f], 1)
		id++
	}
	for e, verts := range m.EToV {
		attr := m.ElementAttributes[e]
		fmt.Fprintf(w, "%d %d 2 %d %d", id, gmshType[m.Dim], attr, attr)
		writeInts(w, verts, 1)
		id++
	}
	_, err := fmt.Fprintf(w, "$EndElements\n")
	return err
}
