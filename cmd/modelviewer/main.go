// Command modelviewer loads a glTF asset and displays it in an orbiting
// camera view. Drag to orbit, scroll to zoom, W toggles wireframe, space
// toggles auto-rotation.
package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/polyforge/gltfscene/internal/config"
	"github.com/polyforge/gltfscene/internal/engine/camera"
	"github.com/polyforge/gltfscene/internal/engine/render"
	"github.com/polyforge/gltfscene/internal/engine/window"
	"github.com/polyforge/gltfscene/internal/logger"
	"github.com/polyforge/gltfscene/pkg/gltfmodel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	gltfmodel.SetLogger(logger.Log)

	if cfg.Viewer.Model == "" {
		return fmt.Errorf("no model given, pass a .gltf or .glb path with -model")
	}

	win, err := window.New(window.Config{
		Title:      "gltfscene: " + cfg.Viewer.Model,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Log)
	if err != nil {
		return err
	}
	defer win.Close()

	backend, err := render.NewBackend(logger.Log)
	if err != nil {
		return err
	}
	defer backend.Destroy()

	loader := gltfmodel.NewLoader(backend)
	model := loader.Load(cfg.Viewer.Model)
	defer model.Unload()

	if !model.Valid() {
		logger.Log.Warn("model failed validation, drawing placeholder",
			zap.String("file", cfg.Viewer.Model))
	}

	return loop(win, backend, model, cfg)
}

func loop(win *window.Window, backend *render.Backend, model *gltfmodel.Model, cfg *config.Config) error {
	cam := camera.NewOrbit()
	wireframe := cfg.Viewer.Wireframe
	dragging := false
	var angle float32

	ticker := sdl.GetTicks64()
	for {
		now := sdl.GetTicks64()
		dt := float32(now-ticker) / 1000
		ticker = now

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					return nil
				case sdl.K_w:
					wireframe = !wireframe
				case sdl.K_SPACE:
					cfg.Viewer.AutoRotate = !cfg.Viewer.AutoRotate
				}
			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					dragging = e.Type == sdl.MOUSEBUTTONDOWN
				}
			case *sdl.MouseMotionEvent:
				if dragging {
					cam.HandleDrag(float32(e.XRel), float32(e.YRel))
				}
			case *sdl.MouseWheelEvent:
				cam.HandleZoom(float32(e.Y))
			}
		}

		if cfg.Viewer.AutoRotate && !dragging {
			angle += 30 * dt
			if angle >= 360 {
				angle -= 360
			}
		}

		width, height := win.DrawableSize()
		backend.BeginFrame(width, height)
		backend.SetViewProjection(cam.ViewProjection(width, height))

		scale := cfg.Viewer.Scale
		position := mgl32.Vec3{}
		axis := mgl32.Vec3{0, 1, 0}
		scaleVec := mgl32.Vec3{scale, scale, scale}
		if wireframe {
			model.DrawModelWiresEx(position, axis, angle, scaleVec, gltfmodel.White)
		} else {
			model.DrawModelEx(position, axis, angle, scaleVec, gltfmodel.White)
		}

		win.SwapBuffers()
	}
}
