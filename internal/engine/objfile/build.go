package objfile

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/internal/engine/material"
	"github.com/Faultbox/phongview/internal/engine/model"
)

// Meshes builds one mesh per non-empty group. Vertices are de-indexed per
// unique position/texture/normal triple and polygons are fan triangulated.
// Normals are computed when any corner of the group lacks one, and texture
// coordinates are kept only when every corner has one.
func (dec *Decoder) Meshes(name string) ([]*model.Mesh, error) {
	var meshes []*model.Mesh
	for _, g := range dec.Groups {
		if len(g.Faces) == 0 {
			continue
		}
		m, err := dec.buildMesh(meshName(name, g), g)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%s: no faces", name)
	}
	return meshes, nil
}

func meshName(file string, g *Group) string {
	name := file
	if g.Object != "" {
		name = g.Object
	}
	if g.Material != "" {
		name += "/" + g.Material
	}
	return name
}

func (dec *Decoder) buildMesh(name string, g *Group) (*model.Mesh, error) {
	hasUV, hasNormals := true, true
	for _, f := range g.Faces {
		for _, c := range f {
			hasUV = hasUV && c.VT >= 0
			hasNormals = hasNormals && c.VN >= 0
		}
	}

	var (
		vertices  []mgl32.Vec3
		normals   []mgl32.Vec3
		texCoords []mgl32.Vec2
		faces     [][3]uint32
	)
	index := make(map[Corner]uint32)
	corner := func(c Corner) uint32 {
		if !hasUV {
			c.VT = -1
		}
		if !hasNormals {
			c.VN = -1
		}
		if idx, ok := index[c]; ok {
			return idx
		}
		idx := uint32(len(vertices))
		index[c] = idx
		vertices = append(vertices, dec.Vertices[c.V])
		if hasUV {
			texCoords = append(texCoords, dec.UVs[c.VT])
		}
		if hasNormals {
			normals = append(normals, dec.Normals[c.VN])
		}
		return idx
	}

	for _, f := range g.Faces {
		first := corner(f[0])
		for i := 1; i+1 < len(f); i++ {
			faces = append(faces, [3]uint32{first, corner(f[i]), corner(f[i+1])})
		}
	}

	return model.NewMesh(name, vertices, faces, normals, texCoords, dec.material(g.Material))
}

// material returns the named material, or the default one when the group
// names none or the library does not define it.
func (dec *Decoder) material(name string) material.Material {
	if name == "" {
		return material.Default()
	}
	mat, ok := dec.Materials[name]
	if !ok {
		dec.Warnings = append(dec.Warnings, fmt.Sprintf("material %s not defined, using default", name))
		return material.Default()
	}
	return *mat
}
