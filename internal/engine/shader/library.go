package shader

import (
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/logger"
)

// Library compiles shaders on first use and caches them by program name.
// It must only be used from the render thread.
type Library struct {
	fsys    fs.FS
	ctx     Compiler
	shaders map[string]*Shader
	log     *zap.Logger
}

// NewLibrary creates a library reading sources from fsys.
// A nil fsys uses the embedded programs.
func NewLibrary(ctx Compiler, fsys fs.FS) *Library {
	if fsys == nil {
		fsys = Embedded()
	}
	return &Library{
		fsys:    fsys,
		ctx:     ctx,
		shaders: make(map[string]*Shader),
		log:     logger.Named("shader"),
	}
}

// Get returns the compiled shader for name. The empty name is the base tier
// pass-through program; any other name is a Phong tier program.
func (l *Library) Get(name string) (*Shader, error) {
	if s, ok := l.shaders[name]; ok {
		return s, nil
	}
	src, err := LoadSources(l.fsys, name)
	if err != nil {
		return nil, err
	}
	var s *Shader
	if name == "" {
		s = NewBase(name, src)
	} else {
		s = NewPhong(name, src)
	}
	if err := s.Compile(l.ctx); err != nil {
		return nil, err
	}
	l.shaders[name] = s
	l.log.Info("shader ready", zap.String("program", name), zap.Stringer("tier", s.Tier()))
	return s, nil
}

// Names returns the loaded program names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.shaders))
	for name := range l.shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload re-reads and recompiles a loaded program. Unknown names are ignored.
// On error the previous program stays in use.
func (l *Library) Reload(name string) error {
	s, ok := l.shaders[name]
	if !ok {
		return nil
	}
	src, err := LoadSources(l.fsys, name)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", name, err)
	}
	if err := s.program.Recompile(l.ctx, src, gpu.DefaultAttributes()); err != nil {
		return fmt.Errorf("reloading %s: %w", name, err)
	}
	l.log.Info("shader reloaded", zap.String("program", name))
	return nil
}

// Close deletes every compiled program.
func (l *Library) Close() {
	for name, s := range l.shaders {
		s.Delete(l.ctx)
		delete(l.shaders, name)
	}
}
