// Package gputest provides a recording gpu.Context for tests that cannot open a window.
package gputest

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/internal/engine/gpu"
)

// Call is one recorded context call.
type Call struct {
	Name      string
	Location  int32
	Transpose bool
	Value     any
}

// Recorder implements gpu.Context by recording calls.
// Uniform names listed in Locations resolve to their value, all others to -1.
type Recorder struct {
	Locations  map[string]int32
	CompileErr error

	Calls     []Call
	Sources   map[uint32][2]string
	Meshes    []gpu.MeshData // every uploaded mesh, in order
	Wireframe bool
	Width     int
	Height    int

	nextHandle uint32
}

// New returns a Recorder that resolves every given uniform name to a distinct location.
func New(names ...string) *Recorder {
	r := &Recorder{Locations: make(map[string]int32), Sources: make(map[uint32][2]string)}
	for i, name := range names {
		r.Locations[name] = int32(i)
	}
	return r
}

var _ gpu.Context = (*Recorder)(nil)

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Named returns the recorded calls with the given method name.
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// At returns the last uniform call made at the location of uniform name.
func (r *Recorder) At(name string) (Call, bool) {
	loc, ok := r.Locations[name]
	if !ok {
		return Call{}, false
	}
	for i := len(r.Calls) - 1; i >= 0; i-- {
		c := r.Calls[i]
		if c.Location == loc && strings.HasPrefix(c.Name, "Uniform") && c.Name != "UniformLocation" {
			return c, true
		}
	}
	return Call{}, false
}

func (r *Recorder) UseProgram(program uint32) {
	r.record(Call{Name: "UseProgram", Value: program})
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	loc, ok := r.Locations[name]
	if !ok {
		loc = -1
	}
	r.record(Call{Name: "UniformLocation", Location: loc, Value: name})
	return loc
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record(Call{Name: "Uniform1i", Location: location, Value: v})
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.record(Call{Name: "Uniform1f", Location: location, Value: v})
}

func (r *Recorder) Uniform2fv(location int32, v mgl32.Vec2) {
	r.record(Call{Name: "Uniform2fv", Location: location, Value: v})
}

func (r *Recorder) Uniform3fv(location int32, v mgl32.Vec3) {
	r.record(Call{Name: "Uniform3fv", Location: location, Value: v})
}

func (r *Recorder) Uniform4fv(location int32, v mgl32.Vec4) {
	r.record(Call{Name: "Uniform4fv", Location: location, Value: v})
}

func (r *Recorder) UniformMatrix3fv(location int32, transpose bool, m [9]float32) {
	r.record(Call{Name: "UniformMatrix3fv", Location: location, Transpose: transpose, Value: m})
}

func (r *Recorder) UniformMatrix4fv(location int32, transpose bool, m [16]float32) {
	r.record(Call{Name: "UniformMatrix4fv", Location: location, Transpose: transpose, Value: m})
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string, attributes map[string]uint32) (uint32, error) {
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	r.nextHandle++
	r.Sources[r.nextHandle] = [2]string{vertexSrc, fragmentSrc}
	r.record(Call{Name: "CompileProgram", Value: r.nextHandle})
	return r.nextHandle, nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record(Call{Name: "DeleteProgram", Value: program})
}

func (r *Recorder) UploadMesh(data gpu.MeshData) (gpu.Mesh, error) {
	if len(data.Positions) == 0 || len(data.Indices) == 0 {
		return gpu.Mesh{}, fmt.Errorf("upload mesh: empty geometry")
	}
	r.nextHandle++
	m := gpu.Mesh{VAO: r.nextHandle, IndexCount: int32(len(data.Indices))}
	r.Meshes = append(r.Meshes, data)
	r.record(Call{Name: "UploadMesh", Value: m})
	return m, nil
}

func (r *Recorder) DrawMesh(mesh gpu.Mesh) {
	r.record(Call{Name: "DrawMesh", Value: mesh})
}

func (r *Recorder) DeleteMesh(mesh gpu.Mesh) {
	r.record(Call{Name: "DeleteMesh", Value: mesh})
}

func (r *Recorder) UploadTexture(img *image.NRGBA) (uint32, error) {
	r.nextHandle++
	r.record(Call{Name: "UploadTexture", Value: img.Bounds()})
	return r.nextHandle, nil
}

func (r *Recorder) BindTexture(unit int32, texture uint32) {
	r.record(Call{Name: "BindTexture", Location: unit, Value: texture})
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record(Call{Name: "DeleteTexture", Value: texture})
}

func (r *Recorder) Clear() {
	r.record(Call{Name: "Clear"})
}

func (r *Recorder) Viewport(width, height int) {
	r.Width, r.Height = width, height
	r.record(Call{Name: "Viewport", Value: [2]int{width, height}})
}

func (r *Recorder) SetClearColor(c mgl32.Vec3) {
	r.record(Call{Name: "SetClearColor", Value: c})
}

func (r *Recorder) SetWireframe(enabled bool) {
	r.Wireframe = enabled
	r.record(Call{Name: "SetWireframe", Value: enabled})
}

func (r *Recorder) ReadPixels(width, height int) []byte {
	r.record(Call{Name: "ReadPixels", Value: [2]int{width, height}})
	return make([]byte, width*height*4)
}
