// Command racer drives a raycast vehicle over a heightmap terrain.
//
// Controls: arrows or WASD drive, space brakes, R flips the car upright, C cycles the chase, free
// and overview cameras, P toggles the projection, F toggles fog, N and M blend the skybox toward
// night or day, Tab captures the cursor and Escape quits. The config file is watched and applied
// on save.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-racer/engine/config"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-racer/engine/window"
)

func main() {
	configPath := flag.String("config", "racer.toml", "TOML or YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := logger.NewDefaultLogger("racer", cfg.Debug)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Infof("no config at %s, using defaults", *configPath)
	case err != nil:
		log.Warnf("%v; using defaults", err)
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithEscapeCloses(false),
	)
	defer win.Close()

	presentMode := renderer.PresentModeUncapped
	if cfg.Render.VSync {
		presentMode = renderer.PresentModeVSync
	}
	msaa := renderer.MSAAOff
	if cfg.Render.MSAA {
		msaa = renderer.MSAA4x
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(cfg.Render.ClearColorVec4()),
	)
	defer r.Release()

	g, err := newGame(cfg, log, win, r)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer g.release()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if updates, err := config.Watch(ctx, *configPath, log); err != nil {
		log.Warnf("not watching %s: %v", *configPath, err)
	} else {
		g.updates = updates
	}
	go func() {
		select {
		case <-ctx.Done():
			g.engine.Quit()
		case <-g.engine.Done():
		}
	}()

	log.Infof("driving; press C to change camera, Escape to quit")
	g.engine.Run()
}
