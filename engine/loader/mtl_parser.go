package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// mtlMaterial is one newmtl block. DiffuseMap is resolved against the MTL file's directory.
type mtlMaterial struct {
	Name       string
	Ambient    mgl32.Vec3
	Diffuse    mgl32.Vec3
	Specular   mgl32.Vec3
	Shininess  float32
	DiffuseMap string
}

func defaultMTLMaterial(name string) *mtlMaterial {
	return &mtlMaterial{
		Name:      name,
		Ambient:   mgl32.Vec3{1, 1, 1},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

// parseMTL reads the Ka, Kd, Ks, Ns and map_Kd statements of a Wavefront material library.
//
// Parameters:
//   - r: the MTL text
//   - dir: directory texture paths are relative to
//
// Returns:
//   - map[string]*mtlMaterial: materials by name
//   - error: error with the offending line number on malformed input
func parseMTL(r io.Reader, dir string) (map[string]*mtlMaterial, error) {
	out := map[string]*mtlMaterial{}
	var cur *mtlMaterial

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "newmtl" {
			name := strings.Join(fields[1:], " ")
			cur = defaultMTLMaterial(name)
			out[name] = cur
			continue
		}
		if cur == nil {
			continue
		}
		args := fields[1:]
		var err error
		switch fields[0] {
		case "Ka":
			cur.Ambient, err = parseVec3(args)
		case "Kd":
			cur.Diffuse, err = parseVec3(args)
		case "Ks":
			cur.Specular, err = parseVec3(args)
		case "Ns":
			if len(args) == 0 {
				err = errors.New("missing Ns value")
				break
			}
			cur.Shininess, err = parseFloat(args[0])
		case "map_Kd":
			// options such as -s come first; the file name is last
			if len(args) == 0 {
				err = errors.New("missing map_Kd file")
				break
			}
			tex := filepath.FromSlash(args[len(args)-1])
			if !filepath.IsAbs(tex) {
				tex = filepath.Join(dir, tex)
			}
			cur.DiffuseMap = tex
		}
		if err != nil {
			return nil, fmt.Errorf("mtl: line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mtl: %w", err)
	}
	return out, nil
}
