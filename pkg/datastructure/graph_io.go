package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/util"
)

// WriteGraph serializes the model as bzip2-compressed text tables: a header
// with table sizes, then vertices, node IDs, tag names, edges with their
// vertex sequences, and forced ring nodes. Import trusts the stored IDs and
// does not re-run deduplication.
func (g *Graph) WriteGraph(f io.Writer) error {
	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %d %d %d\n",
		len(g.vertices), len(g.nodeIDs), len(g.edges), g.tags.Len(), len(g.ringNodes))

	for _, v := range g.vertices {
		xF := strconv.FormatFloat(v.X, 'f', -1, 64)
		yF := strconv.FormatFloat(v.Y, 'f', -1, 64)
		zF := strconv.FormatFloat(v.Z, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s %s\n", xF, yF, zF)
	}

	for _, n := range g.nodeIDs {
		fmt.Fprintf(w, "%d\n", n)
	}

	for _, name := range g.tags.Names() {
		fmt.Fprintf(w, "%s\n", name)
	}

	for _, e := range g.edges {
		lengthF := strconv.FormatFloat(e.Length, 'f', -1, 64)
		fmt.Fprintf(w, "%d %d %d %s %d", e.I, e.J, e.Tag, lengthF, len(e.Vseq))
		for _, v := range e.Vseq {
			fmt.Fprintf(w, " %d", v)
		}
		fmt.Fprintln(w)
	}

	for _, n := range g.ringNodes {
		fmt.Fprintf(w, "%d\n", n)
	}

	return w.Flush()
}

func (g *Graph) WriteGraphFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.WriteGraph(f)
}

// ReadGraph reconstructs a model previously written with WriteGraph.
func ReadGraph(f io.Reader) (*Graph, error) {
	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	r := bufio.NewScanner(bz)
	r.Buffer(make([]byte, 1024*1024), 32*1024*1024)

	line, err := scanLine(r)
	if err != nil {
		return nil, err
	}
	var nVertices, nNodes, nEdges, nTags, nRing int
	if _, err := fmt.Sscanf(line, "%d %d %d %d %d",
		&nVertices, &nNodes, &nEdges, &nTags, &nRing); err != nil {
		return nil, fmt.Errorf("graph header: %w", err)
	}

	vertices := make([]geo.Point, nVertices)
	for i := 0; i < nVertices; i++ {
		line, err := scanLine(r)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("vertex %d: expected 3 fields, got %d", i, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		z, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, err
		}
		vertices[i] = geo.NewPoint3(x, y, z)
	}

	nodes := make([]Index, nNodes)
	for i := 0; i < nNodes; i++ {
		line, err := scanLine(r)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
		if err != nil {
			return nil, err
		}
		nodes[i] = Index(id)
	}

	tags := util.NewIDMap()
	for i := 0; i < nTags; i++ {
		line, err := scanLine(r)
		if err != nil {
			return nil, err
		}
		tags.GetID(line)
	}

	edges := make([]Edge, nEdges)
	for i := 0; i < nEdges; i++ {
		line, err := scanLine(r)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, fmt.Errorf("edge %d: expected at least 5 fields, got %d", i, len(fields))
		}
		ei, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, err
		}
		ej, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, err
		}
		tag, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, err
		}
		length, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, err
		}
		k, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, err
		}
		if len(fields) != 5+k {
			return nil, fmt.Errorf("edge %d: expected %d vseq entries, got %d", i, k, len(fields)-5)
		}
		vseq := make([]Index, k)
		for vi := 0; vi < k; vi++ {
			v, err := strconv.ParseUint(fields[5+vi], 10, 32)
			if err != nil {
				return nil, err
			}
			vseq[vi] = Index(v)
		}
		edges[i] = Edge{
			ID:     Index(i),
			I:      Index(ei),
			J:      Index(ej),
			Vseq:   vseq,
			Length: length,
			Tag:    tag,
		}
	}

	ringNodes := make([]Index, nRing)
	for i := 0; i < nRing; i++ {
		line, err := scanLine(r)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
		if err != nil {
			return nil, err
		}
		ringNodes[i] = Index(id)
	}

	return NewGraph(vertices, nodes, edges, tags, ringNodes), nil
}

func ReadGraphFile(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}

func scanLine(r *bufio.Scanner) (string, error) {
	if !r.Scan() {
		if err := r.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return r.Text(), nil
}
