package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/lighting"
	"github.com/Faultbox/phongview/internal/engine/material"
	"github.com/Faultbox/phongview/pkg/matutils"
)

// Tier selects which uniforms a shader binds.
type Tier int

const (
	// TierBase binds PVM only.
	TierBase Tier = iota
	// TierPhong binds transforms, material and light.
	TierPhong
)

func (t Tier) String() string {
	if t == TierPhong {
		return "phong"
	}
	return "base"
}

// Phong uniform names.
const (
	UniformPVM        = "PVM"
	UniformVM         = "VM"
	UniformVMiT       = "VMiT"
	UniformMode       = "mode"
	UniformKa         = "Ka"
	UniformKd         = "Kd"
	UniformKs         = "Ks"
	UniformNs         = "Ns"
	UniformLight      = "light"
	UniformIa         = "Ia"
	UniformId         = "Id"
	UniformIs         = "Is"
	UniformHasTexture = "has_texture"
	UniformTexture    = "textureObject"
)

// Frame is the per-frame state shared by every draw.
type Frame struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Mode       int32
	Light      *lighting.LightSource
}

// Surface is what a drawable exposes to the Phong tier.
type Surface interface {
	Material() material.Material
	HasTexture() bool
}

// Shader is a program plus the binding contract of its tier.
type Shader struct {
	program *Program
	tier    Tier
}

// NewBase declares a shader that binds only PVM.
func NewBase(name string, src Sources) *Shader {
	return &Shader{program: NewProgram(name, src), tier: TierBase}
}

// NewPhong declares a shader with the full Phong uniform set.
func NewPhong(name string, src Sources) *Shader {
	p := NewProgram(name, src)
	p.AddUniform(UniformVM)
	p.AddUniform(UniformVMiT)
	p.AddUniformWithValue(UniformMode, Int(0))
	p.AddUniform(UniformKa)
	p.AddUniform(UniformKd)
	p.AddUniform(UniformKs)
	p.AddUniform(UniformNs)
	p.AddUniformWithValue(UniformLight, Vec3(mgl32.Vec3{}))
	p.AddUniform(UniformIa)
	p.AddUniform(UniformId)
	p.AddUniform(UniformIs)
	p.AddUniform(UniformHasTexture)
	p.AddUniform(UniformTexture)
	return &Shader{program: p, tier: TierPhong}
}

// Program returns the underlying program.
func (s *Shader) Program() *Program { return s.program }

// Tier returns the binding tier.
func (s *Shader) Tier() Tier { return s.tier }

// Name returns the program name.
func (s *Shader) Name() string { return s.program.Name() }

// Compile builds the program with the standard attribute locations.
func (s *Shader) Compile(ctx Compiler) error {
	return s.program.Compile(ctx, gpu.DefaultAttributes())
}

// Bind activates the program and pushes the uniforms for drawing a surface
// with model matrix m. Only the Phong tier reads the surface and the light.
func (s *Shader) Bind(ctx gpu.Uniforms, f Frame, surf Surface, m mgl32.Mat4) error {
	p := s.program
	p.Use(ctx)

	vm := f.View.Mul4(m)
	p.Bind(ctx, UniformPVM, Mat4(f.Projection.Mul4(vm)))
	if s.tier == TierBase {
		return nil
	}

	vmit, err := matutils.NormalMatrix(vm)
	if err != nil {
		return fmt.Errorf("binding %s: %w", p.Name(), err)
	}
	p.Bind(ctx, UniformVM, Mat4(vm))
	p.Bind(ctx, UniformVMiT, Mat3(vmit))
	p.Bind(ctx, UniformMode, Int(f.Mode))

	if surf != nil {
		if surf.HasTexture() {
			p.Bind(ctx, UniformHasTexture, Int(1))
			p.Bind(ctx, UniformTexture, Int(0))
		} else {
			p.Bind(ctx, UniformHasTexture, Int(0))
		}
		mat := surf.Material()
		p.Bind(ctx, UniformKa, Vec3(mat.Ka))
		p.Bind(ctx, UniformKd, Vec3(mat.Kd))
		p.Bind(ctx, UniformKs, Vec3(mat.Ks))
		p.Bind(ctx, UniformNs, Float(mat.Ns))
	}

	if f.Light != nil {
		light := matutils.Unhomog(f.View.Mul4x1(matutils.Homog(f.Light.Position)))
		p.Bind(ctx, UniformLight, Vec3(light))
		p.Bind(ctx, UniformIa, Vec3(f.Light.Ambient))
		p.Bind(ctx, UniformId, Vec3(f.Light.Diffuse))
		p.Bind(ctx, UniformIs, Vec3(f.Light.Specular))
	}
	return nil
}

// Delete releases the GPU program.
func (s *Shader) Delete(ctx gpu.Programs) {
	s.program.Delete(ctx)
}
