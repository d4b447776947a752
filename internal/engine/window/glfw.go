package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/input"
	"github.com/Faultbox/phongview/internal/logger"
)

// GLFWWindow wraps a GLFW window. GLFW reports input through callbacks,
// which queue events until the next PollEvents.
type GLFWWindow struct {
	config  Config
	win     *glfw.Window
	pending []input.Event
	lastX   float64
	lastY   float64
	hasLast bool
	log     *zap.Logger
}

// NewGLFW creates a GLFW window with an OpenGL 4.1 core context.
func NewGLFW(cfg Config) (*GLFWWindow, error) {
	w := &GLFWWindow{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	var err error
	w.win, err = glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}
	w.win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w.win.SetCloseCallback(func(*glfw.Window) {
		w.push(input.Event{Type: input.EventQuit})
	})
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(input.Event{Type: input.EventWindowResize, Width: width, Height: height})
	})
	w.win.SetKeyCallback(w.onKey)
	w.win.SetCursorPosCallback(w.onCursor)
	w.win.SetScrollCallback(w.onScroll)

	w.log.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

func (w *GLFWWindow) push(e input.Event) {
	w.pending = append(w.pending, e)
}

func (w *GLFWWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	w.push(input.Event{Type: input.EventKeyDown, Key: glfwKeys[key]})
}

func (w *GLFWWindow) onCursor(_ *glfw.Window, x, y float64) {
	var dx, dy float64
	if w.hasLast {
		dx, dy = x-w.lastX, y-w.lastY
	}
	w.lastX, w.lastY, w.hasLast = x, y, true

	var buttons input.Buttons
	if w.win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press {
		buttons |= input.ButtonLeft
	}
	if w.win.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press {
		buttons |= input.ButtonMiddle
	}
	if w.win.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		buttons |= input.ButtonRight
	}

	w.push(input.Event{
		Type:    input.EventMouseMove,
		MouseX:  int(x),
		MouseY:  int(y),
		DX:      int(dx),
		DY:      int(dy),
		Buttons: buttons,
	})
}

func (w *GLFWWindow) onScroll(_ *glfw.Window, _, yoff float64) {
	wheel := 0
	switch {
	case yoff > 0:
		wheel = 1
	case yoff < 0:
		wheel = -1
	}
	if wheel == 0 {
		return
	}
	ctrl := w.win.GetKey(glfw.KeyLeftControl) == glfw.Press ||
		w.win.GetKey(glfw.KeyRightControl) == glfw.Press
	w.push(input.Event{Type: input.EventMouseWheel, Wheel: wheel, Ctrl: ctrl})
}

var glfwKeys = map[glfw.Key]input.Key{
	glfw.KeyQ:      input.KeyQ,
	glfw.KeyEscape: input.KeyEscape,
	glfw.KeySpace:  input.KeySpace,
	glfw.KeyP:      input.KeyP,
	glfw.Key0:      input.Key0,
	glfw.Key1:      input.Key1,
	glfw.Key2:      input.Key2,
	glfw.Key3:      input.Key3,
	glfw.Key4:      input.Key4,
	glfw.Key5:      input.Key5,
	glfw.Key6:      input.Key6,
	glfw.Key7:      input.Key7,
	glfw.Key8:      input.Key8,
	glfw.Key9:      input.Key9,
}

// PollEvents processes GLFW events and hands over the queued input.
func (w *GLFWWindow) PollEvents(in *input.Input) {
	glfw.PollEvents()
	for _, e := range w.pending {
		in.Push(e)
	}
	w.pending = w.pending[:0]
}

// SwapBuffers swaps the OpenGL buffers.
func (w *GLFWWindow) SwapBuffers() {
	w.win.SwapBuffers()
}

// Size returns the current window size.
func (w *GLFWWindow) Size() (int, int) {
	return w.win.GetSize()
}

// DrawableSize returns the framebuffer size.
func (w *GLFWWindow) DrawableSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// SetTitle sets the window title.
func (w *GLFWWindow) SetTitle(title string) {
	w.win.SetTitle(title)
}

// Close destroys the window and terminates GLFW.
func (w *GLFWWindow) Close() {
	w.log.Info("closing window")
	if w.win != nil {
		w.win.Destroy()
	}
	glfw.Terminate()
}
