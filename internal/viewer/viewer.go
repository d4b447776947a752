// Package viewer wires the window, GPU context and scene into the render loop.
package viewer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/config"
	"github.com/Faultbox/phongview/internal/demo"
	"github.com/Faultbox/phongview/internal/engine/camera"
	"github.com/Faultbox/phongview/internal/engine/debug"
	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/input"
	"github.com/Faultbox/phongview/internal/engine/lighting"
	"github.com/Faultbox/phongview/internal/engine/model"
	"github.com/Faultbox/phongview/internal/engine/objfile"
	"github.com/Faultbox/phongview/internal/engine/scene"
	"github.com/Faultbox/phongview/internal/engine/shader"
	"github.com/Faultbox/phongview/internal/engine/texture"
	"github.com/Faultbox/phongview/internal/engine/window"
	"github.com/Faultbox/phongview/internal/logger"
	"github.com/Faultbox/phongview/pkg/matutils"
)

// Title is the window title.
const Title = "phongview"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	win      window.Window
	ctx      gpu.Context
	input    *input.Input
	scene    *scene.Scene
	shaders  *shader.Library
	textures *texture.Cache
	watcher  *shader.Watcher
	keys     *demo.Keys
	shots    *debug.ScreenshotCapture

	capture bool
	log     *zap.Logger
}

// New opens the window and loads the configured scene.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("backend", cfg.Graphics.Backend),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Create window (this also creates OpenGL context)
	win, err := window.New(window.Config{
		Backend:    cfg.Graphics.Backend,
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	ctx, err := gpu.NewGL(mgl32.Vec3(cfg.Graphics.ClearColor))
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create GL context: %w", err)
	}

	v, err := newViewer(cfg, win, ctx)
	if err != nil {
		win.Close()
		return nil, err
	}

	if cfg.Shaders.HotReload {
		if cfg.Shaders.Dir == "" {
			v.log.Warn("shader hot reload needs shaders.dir, disabled")
		} else if w, err := shader.Watch(cfg.Shaders.Dir); err != nil {
			v.log.Warn("shader hot reload disabled", zap.Error(err))
		} else {
			v.watcher = w
		}
	}

	v.log.Info("viewer initialized", zap.Int("models", len(v.scene.Models)))
	return v, nil
}

// newViewer builds everything that sits on top of an open window and context.
func newViewer(cfg *config.Config, win window.Window, ctx gpu.Context) (*Viewer, error) {
	var fsys fs.FS
	if cfg.Shaders.Dir != "" {
		fsys = os.DirFS(cfg.Shaders.Dir)
	}

	v := &Viewer{
		cfg:      cfg,
		win:      win,
		ctx:      ctx,
		input:    input.New(),
		scene:    newScene(cfg, win),
		shaders:  shader.NewLibrary(ctx, fsys),
		textures: texture.NewCache(ctx),
		keys:     demo.FromConfig(cfg.Demo),
		shots:    debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		log:      logger.Named("viewer"),
	}
	v.scene.Resize(v.ctx, v.scene.Width, v.scene.Height)

	for _, mc := range cfg.Scene.Models {
		models, err := v.loadModel(mc)
		if err != nil {
			v.release()
			return nil, err
		}
		v.scene.Add(models...)
	}
	return v, nil
}

func newScene(cfg *config.Config, win window.Window) *scene.Scene {
	cam := camera.New()
	cam.Distance = max(cfg.Camera.Distance, camera.MinDistance)
	cam.Azimuth = cfg.Camera.Azimuth
	cam.Zenith = cfg.Camera.Zenith
	cam.Center = mgl32.Vec3(cfg.Camera.Center)
	cam.Update()

	light := lighting.New(mgl32.Vec3(cfg.Light.Position))
	light.Ambient = mgl32.Vec3(cfg.Light.Ambient)
	light.Diffuse = mgl32.Vec3(cfg.Light.Diffuse)
	light.Specular = mgl32.Vec3(cfg.Light.Specular)

	p := cfg.Projection
	projection := matutils.Frustum(p.Left, p.Right, p.Top, p.Bottom, p.Near, p.Far)

	w, h := win.Size()
	s := scene.New(cam, light, projection, w, h)
	s.Mode = cfg.Scene.Mode
	if dw, _ := win.DrawableSize(); w > 0 && dw > 0 {
		s.PixelScale = float32(dw) / float32(w)
	}
	return s
}

// modelMatrix places a model: translation, then rotation about Y, then scale.
func modelMatrix(mc config.ModelConfig) mgl32.Mat4 {
	scale := mc.Scale
	if scale == 0 {
		scale = 1
	}
	return matutils.Translation(mgl32.Vec3(mc.Translation)).
		Mul4(matutils.RotationY(mc.RotationY)).
		Mul4(matutils.Scale(mgl32.Vec3{scale, scale, scale}))
}

// loadModel reads one OBJ file and uploads a model per mesh.
// Meshes naming the same texture file share one upload. A texture that fails
// to load leaves its mesh untextured.
func (v *Viewer) loadModel(mc config.ModelConfig) ([]*model.Model, error) {
	name := mc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(mc.Path), filepath.Ext(mc.Path))
	}
	program := mc.Shader
	if program == "" {
		program = v.cfg.Shaders.Default
	}

	s, err := v.shaders.Get(program)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	meshes, err := objfile.Load(mc.Path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	placement := modelMatrix(mc)
	models := make([]*model.Model, 0, len(meshes))
	var bounds model.Bounds
	for i, mesh := range meshes {
		if path := mesh.Material.Texture; path != "" {
			tex, loaded, err := v.textures.Get(path)
			if err != nil {
				if loaded {
					v.log.Warn("texture not loaded, drawing untextured",
						zap.String("mesh", mesh.Name),
						zap.String("path", path),
						zap.Error(err),
					)
				}
			} else {
				mesh.Textures = append(mesh.Textures, tex)
			}
		}
		if i == 0 {
			bounds = mesh.Bounds
		} else {
			bounds = bounds.Union(mesh.Bounds)
		}

		m := model.New(name, mesh, s)
		m.M = placement
		if err := m.Upload(v.ctx); err != nil {
			mesh.Release(v.ctx)
			for _, done := range models {
				done.Release(v.ctx)
			}
			return nil, fmt.Errorf("uploading %s: %w", mesh.Name, err)
		}
		models = append(models, m)
	}

	center, size := bounds.Center(), bounds.Size()
	v.log.Info("model loaded",
		zap.String("model", name),
		zap.String("path", mc.Path),
		zap.String("shader", program),
		zap.Int("meshes", len(models)),
		zap.Float32s("center", center[:]),
		zap.Float32s("size", size[:]),
	)
	return models, nil
}

// Scene returns the scene drawn by the viewer.
func (v *Viewer) Scene() *scene.Scene {
	return v.scene
}

// Run draws frames until the scene stops.
func (v *Viewer) Run() error {
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.scene.Running() {
		if err := v.frame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// FPS counter
		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("fps", fps))
			v.win.SetTitle(fmt.Sprintf("%s - %.0f fps", Title, fps))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// frame handles the pending events and draws and presents one frame.
func (v *Viewer) frame() error {
	v.input.Reset()
	v.win.PollEvents(v.input)
	for _, e := range v.input.Events() {
		v.handle(e)
	}
	if !v.scene.Running() {
		return nil
	}

	v.reloadShaders()

	if err := v.scene.Draw(v.ctx); err != nil {
		return err
	}
	if v.capture {
		v.capture = false
		w, h := v.win.DrawableSize()
		if _, err := v.shots.Capture(v.ctx, w, h); err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
		}
	}
	v.win.SwapBuffers()
	return nil
}

func (v *Viewer) handle(e input.Event) {
	if e.Type == input.EventKeyDown && e.Key == input.KeyP {
		v.capture = true
		return
	}
	if v.keys.HandleEvent(v.scene, e) {
		return
	}
	v.scene.HandleEvent(v.ctx, e)
}

func (v *Viewer) reloadShaders() {
	if v.watcher == nil {
		return
	}
	for _, name := range v.watcher.Drain() {
		if err := v.shaders.Reload(name); err != nil {
			v.log.Error("shader reload failed, keeping previous program",
				zap.String("program", name),
				zap.Error(err),
			)
		}
	}
}

func (v *Viewer) release() {
	for _, m := range v.scene.Models {
		m.Release(v.ctx)
	}
	v.scene.Models = nil
	v.textures.Release()
	v.shaders.Close()
}

// Close frees GPU resources and closes the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing shader watcher", zap.Error(err))
		}
	}
	v.release()
	if v.win != nil {
		v.win.Close()
	}
}
