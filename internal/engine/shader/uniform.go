package shader

import (
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/logger"
)

// State is the link state of a uniform.
type State int

const (
	Unlinked   State = iota // program not linked yet
	Linked                  // location resolved
	LinkFailed              // name not found in the program; binding is a no-op
)

func (s State) String() string {
	switch s {
	case Linked:
		return "linked"
	case LinkFailed:
		return "link-failed"
	default:
		return "unlinked"
	}
}

// Uniform is a named uniform slot of one program.
//
// Binding an unresolved uniform, or a value of unsupported shape, logs a
// diagnostic and skips the GPU call. Rendering carries on with whatever value
// the slot held before.
type Uniform struct {
	name     string
	location int32
	state    State
	value    Value
	log      *zap.Logger
}

// NewUniform creates an unlinked uniform. A nil log uses the global logger.
func NewUniform(name string, log *zap.Logger) *Uniform {
	if log == nil {
		log = logger.Named("shader")
	}
	return &Uniform{name: name, location: -1, log: log}
}

// NewUniformWithValue creates an unlinked uniform holding an initial value.
func NewUniformWithValue(name string, v Value, log *zap.Logger) *Uniform {
	u := NewUniform(name, log)
	u.value = v
	return u
}

// Name returns the GLSL identifier.
func (u *Uniform) Name() string { return u.name }

// Location returns the resolved location, or -1.
func (u *Uniform) Location() int32 { return u.location }

// State returns the link state.
func (u *Uniform) State() State { return u.state }

// Value returns the last value set or bound.
func (u *Uniform) Value() Value { return u.value }

// Link resolves the uniform's location in a linked program.
func (u *Uniform) Link(ctx gpu.Uniforms, program uint32) {
	u.location = ctx.UniformLocation(program, u.name)
	if u.location < 0 {
		u.state = LinkFailed
		u.log.Warn("no uniform in program",
			zap.String("uniform", u.name),
			zap.Uint32("program", program),
		)
		return
	}
	u.state = Linked
}

// Set stores a value without binding it.
func (u *Uniform) Set(v Value) {
	u.value = v
}

// Bind stores v and pushes it to the GPU. A KindNone value rebinds the
// stored one.
func (u *Uniform) Bind(ctx gpu.Uniforms, v Value) {
	if v.kind != KindNone {
		u.value = v
	}
	if u.state != Linked {
		u.log.Debug("skipping bind of unresolved uniform",
			zap.String("uniform", u.name),
			zap.Stringer("state", u.state),
		)
		return
	}
	if u.value.kind == KindNone {
		u.log.Error("no value to bind", zap.String("uniform", u.name))
		return
	}
	u.value.bind(ctx, u.location)
}

// BindAny converts v by its runtime shape and binds it. Unsupported shapes
// and types are logged and skipped.
func (u *Uniform) BindAny(ctx gpu.Uniforms, v any) {
	val, err := ValueOf(v)
	if err != nil {
		u.log.Error("cannot bind uniform",
			zap.String("uniform", u.name),
			zap.Error(err),
		)
		return
	}
	u.Bind(ctx, val)
}
