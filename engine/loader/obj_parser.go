package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// objCorner is one face corner: 0-based position, texcoord and normal indices, -1 when absent.
type objCorner struct {
	v, vt, vn int
}

// objGroup collects the triangles drawn with one material.
type objGroup struct {
	material string
	vertices []model.GPUVertex
	indices  []uint32
	lookup   map[objCorner]uint32
	// missingNormals is set when any corner had no vn index
	missingNormals bool
}

// objDocument is a parsed OBJ file.
type objDocument struct {
	name      string
	mtllibs   []string
	groups    []*objGroup
	positions []mgl32.Vec3
	texcoords []mgl32.Vec2
	normals   []mgl32.Vec3
}

// parseOBJ reads Wavefront OBJ geometry. Polygons are fan-triangulated, corners are deduplicated
// per material, and texture v is flipped to a top-left origin. Unknown statements are skipped.
//
// Parameters:
//   - r: the OBJ text
//
// Returns:
//   - *objDocument: positions, attributes and per-material triangle groups
//   - error: error with the offending line number on malformed input
func parseOBJ(r io.Reader) (*objDocument, error) {
	doc := &objDocument{}
	groups := map[string]*objGroup{}
	current := ""

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		args := fields[1:]
		switch fields[0] {
		case "v":
			p, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			doc.positions = append(doc.positions, p)
		case "vn":
			n, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			doc.normals = append(doc.normals, n)
		case "vt":
			if len(args) < 2 {
				return nil, fmt.Errorf("obj: line %d: vt needs 2 components", line)
			}
			u, err := parseFloat(args[0])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			v, err := parseFloat(args[1])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			doc.texcoords = append(doc.texcoords, mgl32.Vec2{u, 1 - v})
		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("obj: line %d: face needs 3 corners, got %d", line, len(args))
			}
			g, ok := groups[current]
			if !ok {
				g = &objGroup{material: current, lookup: map[objCorner]uint32{}}
				groups[current] = g
				doc.groups = append(doc.groups, g)
			}
			corners := make([]uint32, len(args))
			for i, arg := range args {
				c, err := doc.parseCorner(arg)
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				corners[i] = g.add(doc, c)
			}
			for i := 1; i+1 < len(corners); i++ {
				g.indices = append(g.indices, corners[0], corners[i], corners[i+1])
			}
		case "usemtl":
			current = strings.Join(args, " ")
		case "mtllib":
			doc.mtllibs = append(doc.mtllibs, args...)
		case "o":
			if doc.name == "" {
				doc.name = strings.Join(args, " ")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	for _, g := range doc.groups {
		if g.missingNormals {
			model.ComputeNormals(g.vertices, g.indices)
		}
	}
	return doc, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices count back from the end.
func (d *objDocument) parseCorner(s string) (objCorner, error) {
	c := objCorner{v: -1, vt: -1, vn: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("malformed face corner %q", s)
	}
	refs := []*int{&c.v, &c.vt, &c.vn}
	counts := []int{len(d.positions), len(d.texcoords), len(d.normals)}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return c, fmt.Errorf("face corner %q has no position", s)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return c, fmt.Errorf("face corner %q: %w", s, err)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if n == 0 || idx < 0 || idx >= counts[i] {
			return c, fmt.Errorf("face corner %q: index %d out of range", s, n)
		}
		*refs[i] = idx
	}
	return c, nil
}

// add returns the vertex index of c in g, appending a vertex on first use.
func (g *objGroup) add(d *objDocument, c objCorner) uint32 {
	if idx, ok := g.lookup[c]; ok {
		return idx
	}
	var v model.GPUVertex
	v.Position = d.positions[c.v]
	if c.vt >= 0 {
		v.TexCoord = d.texcoords[c.vt]
	}
	if c.vn >= 0 {
		v.Normal = d.normals[c.vn]
	} else {
		g.missingNormals = true
	}
	idx := uint32(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.lookup[c] = idx
	return idx
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	var out mgl32.Vec3
	if len(args) < 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(args))
	}
	for i := range 3 {
		f, err := parseFloat(args[i])
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	return out, nil
}
