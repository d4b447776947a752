package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/input"
	"github.com/Faultbox/phongview/internal/logger"
)

// SDLWindow wraps an SDL2 window and OpenGL context.
type SDLWindow struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

// NewSDL creates an SDL2 window with an OpenGL context.
func NewSDL(cfg Config) (*SDLWindow, error) {
	w := &SDLWindow{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS), set before the window exists.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			w.log.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	w.log.Info("window created",
		zap.String("backend", BackendSDL),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// PollEvents converts pending SDL events into input events.
func (w *SDLWindow) PollEvents(in *input.Input) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				in.Push(input.Event{
					Type:   input.EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				in.Push(input.Event{
					Type: input.EventKeyDown,
					Key:  sdlKey(e.Keysym.Scancode),
				})
			}

		case *sdl.MouseMotionEvent:
			in.Push(input.Event{
				Type:    input.EventMouseMove,
				MouseX:  int(e.X),
				MouseY:  int(e.Y),
				DX:      int(e.XRel),
				DY:      int(e.YRel),
				Buttons: sdlButtons(e.State),
			})

		case *sdl.MouseWheelEvent:
			wheel := int(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wheel = -wheel
			}
			in.Push(input.Event{
				Type:  input.EventMouseWheel,
				Wheel: wheel,
				Ctrl:  sdl.GetModState()&sdl.KMOD_CTRL != 0,
			})
		}
	}
}

var sdlKeys = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_P:      input.KeyP,
	sdl.SCANCODE_0:      input.Key0,
	sdl.SCANCODE_1:      input.Key1,
	sdl.SCANCODE_2:      input.Key2,
	sdl.SCANCODE_3:      input.Key3,
	sdl.SCANCODE_4:      input.Key4,
	sdl.SCANCODE_5:      input.Key5,
	sdl.SCANCODE_6:      input.Key6,
	sdl.SCANCODE_7:      input.Key7,
	sdl.SCANCODE_8:      input.Key8,
	sdl.SCANCODE_9:      input.Key9,
}

func sdlKey(code sdl.Scancode) input.Key {
	return sdlKeys[code]
}

// SDL button state masks: SDL_BUTTON(n) = 1 << (n-1).
const (
	sdlLeftMask   = 1 << 0
	sdlMiddleMask = 1 << 1
	sdlRightMask  = 1 << 2
)

func sdlButtons(state uint32) input.Buttons {
	var b input.Buttons
	if state&sdlLeftMask != 0 {
		b |= input.ButtonLeft
	}
	if state&sdlMiddleMask != 0 {
		b |= input.ButtonMiddle
	}
	if state&sdlRightMask != 0 {
		b |= input.ButtonRight
	}
	return b
}

// Close destroys the window and cleans up SDL2.
func (w *SDLWindow) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *SDLWindow) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the current window size.
func (w *SDLWindow) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size, larger than Size on HiDPI screens.
func (w *SDLWindow) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *SDLWindow) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
