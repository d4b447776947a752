package objfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/phongview/internal/engine/material"
)

const cubeFace = `# unit quad split in two materials
mtllib quad.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl red
f 1/1/1 2/2/1 3/3/1
usemtl blue
f 1/1/1 3/3/1 4/4/1
`

const quadMtl = `newmtl red
Ka 0.1 0 0
Kd 1 0 0
Ks 0.5 0.5 0.5
Ns 32
d 0.8

newmtl blue
Kd 0 0 1
map_Kd -s 2 2 tex/blue.png
illum 2
`

func decode(t *testing.T, obj string) *Decoder {
	t.Helper()
	dec := NewDecoder()
	require.NoError(t, dec.Decode(strings.NewReader(obj)))
	return dec
}

func TestDecodeGroupsByMaterial(t *testing.T) {
	dec := decode(t, cubeFace)

	assert.Equal(t, "quad.mtl", dec.MtlLib)
	assert.Len(t, dec.Vertices, 4)
	assert.Len(t, dec.UVs, 4)
	assert.Len(t, dec.Normals, 1)
	require.Len(t, dec.Groups, 2)
	assert.Equal(t, "red", dec.Groups[0].Material)
	assert.Equal(t, "blue", dec.Groups[1].Material)
	assert.Equal(t, Face{{V: 0, VT: 0, VN: 0}, {V: 2, VT: 2, VN: 0}, {V: 3, VT: 3, VN: 0}}, dec.Groups[1].Faces[0])
}

func TestDecodeFaceForms(t *testing.T) {
	dec := decode(t, `v 0 0 0
v 1 0 0
v 1 1 0
vn 0 0 1
f 1 2 3
f 1//1 2//1 3//1
f -3 -2 -1
`)
	faces := dec.Groups[0].Faces
	require.Len(t, faces, 3)
	assert.Equal(t, Corner{V: 1, VT: -1, VN: -1}, faces[0][1])
	assert.Equal(t, Corner{V: 1, VT: -1, VN: 0}, faces[1][1])
	assert.Equal(t, faces[0], faces[2])
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"zero index":      "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"out of range":    "v 0 0 0\nf 1 2 3\n",
		"too few corners": "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad number":      "v 0 zero 0\n",
		"short vertex":    "v 0 0\n",
	}
	for name, obj := range tests {
		t.Run(name, func(t *testing.T) {
			err := NewDecoder().Decode(strings.NewReader(obj))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestDecodeMaterials(t *testing.T) {
	dec := NewDecoder()
	require.NoError(t, dec.DecodeMaterials(strings.NewReader(quadMtl)))

	red := dec.Materials["red"]
	require.NotNil(t, red)
	assert.Equal(t, mgl32.Vec3{0.1, 0, 0}, red.Ka)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, red.Kd)
	assert.Equal(t, float32(32), red.Ns)

	blue := dec.Materials["blue"]
	require.NotNil(t, blue)
	assert.Equal(t, material.Default().Ka, blue.Ka)
	assert.Equal(t, "tex/blue.png", blue.Texture)

	require.Len(t, dec.Warnings, 2)
	assert.Contains(t, dec.Warnings[0], "not supported: d")
	assert.Contains(t, dec.Warnings[1], "illum")
}

func TestMeshesTriangulateAndDeindex(t *testing.T) {
	dec := decode(t, `o poly
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v -1 0.5 0
f 1 2 3 4 5
`)
	meshes, err := dec.Meshes("file")
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "poly", m.Name)
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}, m.Faces)
	assert.Len(t, m.Vertices, 5)
	assert.Nil(t, m.TexCoords)
	require.Len(t, m.Normals, 5)
	assert.InDelta(t, 1, m.Normals[0][2], 1e-5)
	assert.Equal(t, material.Default(), m.Material)
}

func TestMeshesSplitSeams(t *testing.T) {
	// Same position, two texture coordinates: two vertices.
	dec := decode(t, `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vt 0.5 0.5
f 1/1 2/2 3/3
f 1/4 3/3 2/2
`)
	meshes, err := dec.Meshes("seam")
	require.NoError(t, err)
	m := meshes[0]
	assert.Equal(t, "seam", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.TexCoords, 4)
	assert.Len(t, m.Tangents, 4)
}

func TestMeshesNoFaces(t *testing.T) {
	dec := decode(t, "v 0 0 0\n")
	_, err := dec.Meshes("empty")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(cubeFace), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.mtl"), []byte(quadMtl), 0o644))

	meshes, err := Load(filepath.Join(dir, "quad.obj"))
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	assert.Equal(t, "quad/red", meshes[0].Name)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, meshes[0].Material.Kd)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, meshes[0].Normals[0])
	assert.Len(t, meshes[0].Vertices, 3)

	assert.Equal(t, "quad/blue", meshes[1].Name)
	assert.Equal(t, filepath.Join(dir, "tex", "blue.png"), meshes[1].Material.Texture)
}

func TestLoadMissingLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(cubeFace), 0o644))

	meshes, err := Load(filepath.Join(dir, "quad.obj"))
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, material.Default(), meshes[0].Material)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
