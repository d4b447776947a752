// Package window creates the OS window and OpenGL 4.1 core context.
package window

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/phongview/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Backend    string
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window is an OS window with a current OpenGL context.
type Window interface {
	// PollEvents appends the pending events to in.
	PollEvents(in *input.Input)
	SwapBuffers()
	// Size returns the window size in screen coordinates.
	Size() (int, int)
	// DrawableSize returns the framebuffer size in pixels.
	DrawableSize() (int, int)
	SetTitle(title string)
	Close()
}

// New creates a window with the configured backend. An empty backend is SDL.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case "", BackendSDL:
		return NewSDL(cfg)
	case BackendGLFW:
		return NewGLFW(cfg)
	}
	return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
}
