package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"sync"
	"syscall"
	"time"

	c "lautenbacher.net/ledanim/config"
	ctl "lautenbacher.net/ledanim/controller"
	"lautenbacher.net/ledanim/daylight"
	"lautenbacher.net/ledanim/logging"
	pl "lautenbacher.net/ledanim/platform"
	"lautenbacher.net/ledanim/scene"
	u "lautenbacher.net/ledanim/util"
)

type App struct {
	ossignal     chan os.Signal
	conf         *c.Config
	platform     pl.Platform
	clock        ctl.Clock
	params       *u.AtomicMapEvent[any]
	configEvents *u.AtomicEvent[*c.Config]
	controller   *ctl.Controller
	scene        *scene.Scene
	night        *daylight.Source
	stats        *u.TickStats
	stopsignal   chan struct{}
	loopErr      chan error
	shutdownWg   sync.WaitGroup
}

func NewApp(ossignal chan os.Signal, conf *c.Config) *App {
	app := &App{
		ossignal:     ossignal,
		conf:         conf,
		clock:        ctl.NewSystemClock(),
		params:       u.NewAtomicMapEvent[any](),
		configEvents: u.NewAtomicEvent[*c.Config](),
		stats:        u.NewTickStats(conf.Loop.StatsWindow),
		stopsignal:   make(chan struct{}),
		loopErr:      make(chan error, 1),
	}
	app.params.SendAll(conf.Params)
	return app
}

func main() {
	cfile := flag.String("config", c.CONFILE, "Config file to use")
	realp := flag.Bool("real", false, "Set to true if program runs on real hardware")
	flag.Parse()

	conf, err := c.ReadConfig(*cfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	conf.RealHW = *realp

	logConf := conf.Logging.TUI
	if conf.RealHW {
		logConf = conf.Logging.HW
	}
	// The TUI owns the terminal, so log output is held back until its
	// log pane exists.
	if err := logging.Init(!conf.RealHW, logging.Options(logConf)); err != nil {
		fmt.Fprintf(os.Stderr, "Error initialising logging: %v\n", err)
		os.Exit(1)
	}

	ossignal := make(chan os.Signal, 1)
	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	app := NewApp(ossignal, conf)
	if conf.RealHW {
		app.platform = pl.NewRaspberryPiPlatform(conf)
	} else {
		app.platform = pl.NewTUIPlatform(conf, ossignal, app.params)
	}

	os.Exit(app.run())
}

// run starts everything, waits for a signal or a failing tick and
// shuts down again. It returns the process exit code.
func (a *App) run() int {
	defer logging.Close()

	if err := a.platform.Start(); err != nil {
		slog.Error("Error starting platform", "error", err)
		return 1
	}
	<-a.platform.Ready()

	if err := a.initialise(); err != nil {
		slog.Error("Error initialising animations", "error", err)
		a.platform.Stop()
		return 1
	}

	watcher, err := c.Watch(a.conf.ConfigFile, a.configEvents.Send)
	if err != nil {
		slog.Warn("Config file is not watched", "error", err)
	}

	a.shutdownWg.Add(1)
	go a.animationLoop()

	code := a.waitForExit()

	if watcher != nil {
		watcher.Close()
	}
	a.shutdown()
	return code
}

// waitForExit serves SIGHUP reloads until the program has to end and
// returns the exit code.
func (a *App) waitForExit() int {
	for {
		select {
		case sig := <-a.ossignal:
			if sig != syscall.SIGHUP {
				slog.Info("Received signal, shutting down", "signal", sig)
				return 0
			}
			slog.Info("Reloading config", "file", a.conf.ConfigFile)
			conf, err := c.ReadConfig(a.conf.ConfigFile)
			if err != nil {
				slog.Error("Error reloading config", "error", err)
				continue
			}
			a.configEvents.Send(conf)
		case err := <-a.loopErr:
			slog.Error("Animation loop failed", "error", err)
			return 1
		}
	}
}

func (a *App) initialise() error {
	sc, err := scene.Build(a.conf.Bindings, filepath.Dir(a.conf.ConfigFile))
	if err != nil {
		return err
	}
	ctrl, err := ctl.NewController(sc.Bindings, a.conf.Hardware.LedsTotal, a.platform, a.clock)
	if err != nil {
		sc.Close()
		return err
	}
	a.scene, a.controller = sc, ctrl
	a.startNight(a.conf.Night)
	slog.Info("Animations started", "bindings", len(sc.Bindings), "leds", ctrl.LedsTotal())
	return nil
}

func (a *App) startNight(conf c.NightConfig) {
	if !conf.Enabled {
		return
	}
	a.night = daylight.NewSource(conf.Param, conf.Latitude, conf.Longitude, a.params)
	a.night.Start()
}

func (a *App) stopNight() {
	if a.night != nil {
		a.night.Stop()
		a.night = nil
	}
}

// animationLoop ticks the controller until stopsignal is closed. The
// controller and scene are only touched from this goroutine while it
// runs.
func (a *App) animationLoop() {
	defer a.shutdownWg.Done()

	ticker := time.NewTicker(a.conf.Loop.TickDelay)
	defer ticker.Stop()
	statsTicker := time.NewTicker(a.conf.Loop.StatsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-a.stopsignal:
			slog.Info("Ending animation loop")
			return
		case <-a.configEvents.Channel():
			a.reload(a.configEvents.Value())
		case <-a.params.Channel():
			for name, value := range a.params.ConsumeValues() {
				slog.Info("Parameter changed", "name", name, "value", value)
			}
		case <-statsTicker.C:
			s := a.stats.Summary()
			slog.Info("Tick statistics", "ticks", s.Count, "mean", s.Mean, "max", s.Max, "last", s.Last)
		case <-ticker.C:
			start := time.Now()
			if err := a.controller.Tick(a.params.Value()); err != nil {
				a.loopErr <- err
				return
			}
			a.stats.Record(time.Since(start))
		}
	}
}

// reload applies the runtime part of next. The old bindings stay
// active if next can't be built.
func (a *App) reload(next *c.Config) {
	if a.conf.NeedsRestart(next) {
		slog.Warn("Hardware, Loop or Logging settings changed, they take effect after a restart")
	}
	rt := next.Runtime()
	sc, err := scene.Build(rt.Bindings, filepath.Dir(next.ConfigFile))
	if err != nil {
		slog.Error("Keeping old animations", "error", err)
		return
	}
	ctrl, err := ctl.NewController(sc.Bindings, a.conf.Hardware.LedsTotal, a.platform, a.clock)
	if err != nil {
		sc.Close()
		slog.Error("Keeping old animations", "error", err)
		return
	}

	a.scene.Close()
	a.scene, a.controller = sc, ctrl
	a.params.SendAll(rt.Params)
	if !reflect.DeepEqual(a.conf.Night, rt.Night) {
		a.stopNight()
		a.startNight(rt.Night)
	}
	a.conf.Params, a.conf.Night, a.conf.Bindings = rt.Params, rt.Night, rt.Bindings
	slog.Info("Animations reloaded", "bindings", len(sc.Bindings))
}

func (a *App) shutdown() {
	close(a.stopsignal)
	a.shutdownWg.Wait()

	a.stopNight()
	if err := a.controller.AllOff(); err != nil {
		slog.Error("Error switching LEDs off", "error", err)
	}
	a.scene.Close()
	a.platform.Stop()
	slog.Info("Shutdown complete")
}

// Local Variables:
// compile-command: "go build"
// End:
