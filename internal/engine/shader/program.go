// Package shader binds transform, material and light uniforms to GLSL programs.
package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/logger"
)

// ErrSourceMissing is returned when a named program has no source file.
var ErrSourceMissing = errors.New("shader source missing")

// Source file names inside a program directory.
const (
	VertexFile   = "vertex_shader.glsl"
	FragmentFile = "fragment_shader.glsl"
)

//go:embed shaders
var embedded embed.FS

// Embedded returns the built-in program directories (phong, flat).
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

const passThroughVertex = `#version 410 core

in vec3 position;
uniform mat4 PVM;

void main() {
	gl_Position = PVM * vec4(position, 1.0);
}
`

const passThroughFragment = `#version 410 core

out vec4 fragColor;

void main() {
	fragColor = vec4(1.0);
}
`

// Sources is the GLSL text of one program.
type Sources struct {
	Vertex   string
	Fragment string
}

// PassThrough returns the built-in sources used by nameless programs.
func PassThrough() Sources {
	return Sources{Vertex: passThroughVertex, Fragment: passThroughFragment}
}

// LoadSources reads <name>/vertex_shader.glsl and <name>/fragment_shader.glsl
// from fsys. An empty name returns the pass-through pair.
func LoadSources(fsys fs.FS, name string) (Sources, error) {
	if name == "" {
		return PassThrough(), nil
	}
	vert, err := readSource(fsys, path.Join(name, VertexFile))
	if err != nil {
		return Sources{}, err
	}
	frag, err := readSource(fsys, path.Join(name, FragmentFile))
	if err != nil {
		return Sources{}, err
	}
	return Sources{Vertex: vert, Fragment: frag}, nil
}

func readSource(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrSourceMissing, name)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// Compiler is the part of the GPU context needed to build a program.
type Compiler interface {
	gpu.Programs
	gpu.Uniforms
}

// Program is a compiled GPU program and its named uniform slots.
type Program struct {
	name     string
	sources  Sources
	handle   uint32
	uniforms map[string]*Uniform
	log      *zap.Logger
}

// NewProgram declares a program with a PVM uniform. It is not compiled yet.
func NewProgram(name string, src Sources) *Program {
	p := &Program{
		name:     name,
		sources:  src,
		uniforms: make(map[string]*Uniform),
		log:      logger.Named("shader").With(zap.String("program", name)),
	}
	p.uniforms["PVM"] = NewUniform("PVM", p.log)
	return p
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Handle returns the compiled GPU handle, 0 before Compile.
func (p *Program) Handle() uint32 { return p.handle }

// Sources returns the GLSL text the program was declared with.
func (p *Program) Sources() Sources { return p.sources }

// AddUniform registers a uniform slot. Re-registering a name replaces the
// existing slot and logs a warning. Slots added after Compile stay unlinked
// until the next Link.
func (p *Program) AddUniform(name string) *Uniform {
	return p.AddUniformWithValue(name, Value{})
}

// AddUniformWithValue registers a uniform slot holding an initial value.
func (p *Program) AddUniformWithValue(name string, v Value) *Uniform {
	if _, ok := p.uniforms[name]; ok {
		p.log.Warn("redefining existing uniform", zap.String("uniform", name))
	}
	u := NewUniformWithValue(name, v, p.log)
	p.uniforms[name] = u
	return u
}

// Uniform returns the slot registered under name, or nil.
func (p *Program) Uniform(name string) *Uniform {
	return p.uniforms[name]
}

// UniformNames returns the registered names in sorted order.
func (p *Program) UniformNames() []string {
	names := make([]string, 0, len(p.uniforms))
	for name := range p.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile compiles and links the program and resolves every uniform.
// A previously compiled handle is released on success.
func (p *Program) Compile(ctx Compiler, attributes map[string]uint32) error {
	p.log.Info("compiling program")
	handle, err := ctx.CompileProgram(p.sources.Vertex, p.sources.Fragment, attributes)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", p.name, err)
	}
	if p.handle != 0 {
		ctx.DeleteProgram(p.handle)
	}
	p.handle = handle

	ctx.UseProgram(p.handle)
	p.Link(ctx)
	return nil
}

// Recompile swaps in new sources. On failure the previous program stays active.
func (p *Program) Recompile(ctx Compiler, src Sources, attributes map[string]uint32) error {
	old := p.sources
	p.sources = src
	if err := p.Compile(ctx, attributes); err != nil {
		p.sources = old
		return err
	}
	return nil
}

// Link resolves the location of every registered uniform.
func (p *Program) Link(ctx gpu.Uniforms) {
	for _, name := range p.UniformNames() {
		p.uniforms[name].Link(ctx, p.handle)
	}
}

// Use activates the program.
func (p *Program) Use(ctx gpu.Uniforms) {
	ctx.UseProgram(p.handle)
}

// Bind pushes v to the uniform registered under name.
func (p *Program) Bind(ctx gpu.Uniforms, name string, v Value) {
	u, ok := p.uniforms[name]
	if !ok {
		p.log.Error("binding unregistered uniform", zap.String("uniform", name))
		return
	}
	u.Bind(ctx, v)
}

// Delete releases the GPU program.
func (p *Program) Delete(ctx gpu.Programs) {
	ctx.DeleteProgram(p.handle)
	p.handle = 0
}
