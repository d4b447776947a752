// Package objfile decodes Wavefront OBJ meshes and their MTL materials.
// Supported statements: v, vt, vn, f, o, g, usemtl, mtllib in OBJ files and
// newmtl, Ka, Kd, Ks, Ns, map_Kd in MTL files. Surfaces are drawn opaque, so
// dissolve (d, Tr) is among the skipped statements. Anything else is recorded
// as a warning and skipped.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/internal/engine/material"
)

// Corner is one face vertex. Absent texture or normal indices are -1.
type Corner struct {
	V, VT, VN int
}

// Face is a polygon with three or more corners.
type Face []Corner

// Group is a run of faces of one object sharing a material.
type Group struct {
	Object   string
	Material string
	Faces    []Face
}

// Decoder holds everything decoded from one OBJ file and its material library.
type Decoder struct {
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Groups    []*Group
	MtlLib    string
	Materials map[string]*material.Material
	Warnings  []string

	line       int
	kind       string
	object     string
	matName    string
	current    *Group
	matCurrent *material.Material
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{Materials: make(map[string]*material.Material)}
}

// Decode parses OBJ statements from r.
func (dec *Decoder) Decode(r io.Reader) error {
	dec.kind = "obj"
	return dec.parse(r, dec.parseObjLine)
}

// DecodeMaterials parses MTL statements from r.
func (dec *Decoder) DecodeMaterials(r io.Reader) error {
	dec.kind = "mtl"
	dec.matCurrent = nil
	return dec.parse(r, dec.parseMtlLine)
}

func (dec *Decoder) parse(r io.Reader, parseLine func(fields []string) error) error {
	dec.line = 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		dec.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := parseLine(fields); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: reading line %d: %w", dec.kind, dec.line+1, err)
	}
	return nil
}

func (dec *Decoder) parseObjLine(fields []string) error {
	switch fields[0] {
	case "v":
		v, err := dec.parseVec(fields[1:], 3)
		if err != nil {
			return err
		}
		dec.Vertices = append(dec.Vertices, mgl32.Vec3{v[0], v[1], v[2]})
	case "vn":
		v, err := dec.parseVec(fields[1:], 3)
		if err != nil {
			return err
		}
		dec.Normals = append(dec.Normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := dec.parseVec(fields[1:], 2)
		if err != nil {
			return err
		}
		dec.UVs = append(dec.UVs, mgl32.Vec2{v[0], v[1]})
	case "f":
		return dec.parseFace(fields[1:])
	case "o", "g":
		name := ""
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		dec.object = name
		dec.current = nil
	case "usemtl":
		if len(fields) < 2 {
			return dec.formatError("usemtl with no name")
		}
		dec.matName = fields[1]
		dec.current = nil
	case "mtllib":
		if len(fields) < 2 {
			return dec.formatError("mtllib with no file")
		}
		dec.MtlLib = strings.Join(fields[1:], " ")
	default:
		dec.appendWarn("statement not supported: " + fields[0])
	}
	return nil
}

// parseFace parses
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *Decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return dec.formatError("face with less than 3 vertices")
	}
	face := make(Face, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		c := Corner{VT: -1, VN: -1}

		var err error
		if c.V, err = dec.parseIndex(parts[0], len(dec.Vertices)); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if c.VT, err = dec.parseIndex(parts[1], len(dec.UVs)); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.VN, err = dec.parseIndex(parts[2], len(dec.Normals)); err != nil {
				return err
			}
		}
		face[i] = c
	}
	dec.group().Faces = append(dec.group().Faces, face)
	return nil
}

// parseIndex converts a 1-based or negative (relative) OBJ index into a
// 0-based one, checking it against the n elements read so far.
func (dec *Decoder) parseIndex(s string, n int) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.formatError(fmt.Sprintf("bad index %q", s))
	}
	idx := val - 1
	if val < 0 {
		idx = n + val
	}
	if val == 0 || idx < 0 || idx >= n {
		return 0, dec.formatError(fmt.Sprintf("index %d out of range (%d defined)", val, n))
	}
	return idx, nil
}

// group returns the group faces are currently added to, creating it on
// first use after an o, g or usemtl statement. Repeated object/material
// pairs are merged.
func (dec *Decoder) group() *Group {
	if dec.current != nil {
		return dec.current
	}
	for _, g := range dec.Groups {
		if g.Object == dec.object && g.Material == dec.matName {
			dec.current = g
			return g
		}
	}
	dec.current = &Group{Object: dec.object, Material: dec.matName}
	dec.Groups = append(dec.Groups, dec.current)
	return dec.current
}

func (dec *Decoder) parseMtlLine(fields []string) error {
	if fields[0] == "newmtl" {
		if len(fields) < 2 {
			return dec.formatError("newmtl with no name")
		}
		mat := material.Default()
		mat.Name = fields[1]
		dec.Materials[mat.Name] = &mat
		dec.matCurrent = &mat
		return nil
	}
	if dec.matCurrent == nil {
		dec.appendWarn(fields[0] + " before newmtl")
		return nil
	}

	switch fields[0] {
	case "Ka", "Kd", "Ks":
		v, err := dec.parseVec(fields[1:], 3)
		if err != nil {
			return err
		}
		c := mgl32.Vec3{v[0], v[1], v[2]}
		switch fields[0] {
		case "Ka":
			dec.matCurrent.Ka = c
		case "Kd":
			dec.matCurrent.Kd = c
		default:
			dec.matCurrent.Ks = c
		}
	case "Ns":
		v, err := dec.parseVec(fields[1:], 1)
		if err != nil {
			return err
		}
		dec.matCurrent.Ns = v[0]
	case "map_Kd":
		if len(fields) < 2 {
			return dec.formatError("map_Kd with no file")
		}
		// Options such as -s and -o precede the file name, which is last.
		dec.matCurrent.Texture = fields[len(fields)-1]
	default:
		dec.appendWarn("statement not supported: " + fields[0])
	}
	return nil
}

func (dec *Decoder) parseVec(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, dec.formatError(fmt.Sprintf("expected %d values, got %d", n, len(fields)))
	}
	out := make([]float32, n)
	for i, f := range fields[:n] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, dec.formatError(fmt.Sprintf("bad number %q", f))
		}
		out[i] = float32(val)
	}
	return out, nil
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("%s line %d: %s", dec.kind, dec.line, msg)
}

func (dec *Decoder) appendWarn(msg string) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("%s(%d): %s", dec.kind, dec.line, msg))
}
