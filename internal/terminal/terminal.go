package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"gridcaster/engine"
	"gridcaster/internal/config"
	"gridcaster/internal/logger"
	"gridcaster/level"
	"gridcaster/model"
)

const tick = 16 * time.Millisecond // ~60 FPS

// Frontend drives the pipeline from terminal key events.
type Frontend struct {
	screen   tcell.Screen
	pipeline *engine.Pipeline
	player   *model.Player
	uploader *Uploader
	cellSize float64
	paused   bool
	dirty    bool

	log *logrus.Entry
}

// New wires a frontend to an initialized screen.
func New(screen tcell.Screen, s *config.Settings) (*Frontend, error) {
	pipeline, err := engine.NewPipeline(s.Engine, s.Level, s.Window)
	if err != nil {
		return nil, err
	}

	f := &Frontend{
		screen:   screen,
		pipeline: pipeline,
		player:   model.NewPlayer(s.Start.X, s.Start.Y, s.Start.Dir),
		uploader: NewUploader(screen),
		cellSize: s.Engine.CellSize,
		dirty:    true,
		log:      logger.Component("terminal"),
	}
	f.player.Size = 2 * s.Engine.CollisionRadius

	screen.HideCursor()
	screen.Clear()

	return f, nil
}

func (f *Frontend) Player() *model.Player      { return f.player }
func (f *Frontend) Pipeline() *engine.Pipeline { return f.pipeline }

// Run draws frames until ctx is done or a quit key arrives.
func (f *Frontend) Run(ctx context.Context) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := f.Render(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			f.log.Debug("Context done, leaving frame loop.")
			return nil

		case ev := <-events:
			if !f.HandleEvent(ev) {
				f.log.Debug("Quit key, leaving frame loop.")
				return nil
			}

		case <-ticker.C:
			if f.dirty {
				if err := f.Render(); err != nil {
					return err
				}
			}
		}
	}
}

// HandleEvent applies one event and reports whether the loop should go on.
func (f *Frontend) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			f.move(f.player.Forward)
		case tcell.KeyDown:
			f.move(f.player.Backward)
		case tcell.KeyLeft:
			f.turn(f.player.TurnLeft)
		case tcell.KeyRight:
			f.turn(f.player.TurnRight)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'p', 'P':
				f.paused = !f.paused
			case 'w', 'W':
				f.move(f.player.Forward)
			case 's', 'S':
				f.move(f.player.Backward)
			case 'a', 'A':
				f.turn(f.player.TurnLeft)
			case 'd', 'D':
				f.turn(f.player.TurnRight)
			}
		}

	case *tcell.EventResize:
		f.screen.Sync()
		f.dirty = true
	}

	return true
}

func (f *Frontend) move(step func(lvl *level.Level, cellSize float64)) {
	if f.paused {
		return
	}
	step(f.pipeline.Level(), f.cellSize)
	f.dirty = f.dirty || f.player.Moved
}

func (f *Frontend) turn(step func()) {
	if f.paused {
		return
	}
	step()
	f.dirty = true
}

// Render casts from the player's position and shows the frame.
func (f *Frontend) Render() error {
	vp, err := f.player.Snapshot()
	if err != nil {
		return err
	}
	if _, err := f.pipeline.Step(vp); err != nil {
		return err
	}
	if err := f.pipeline.Present(f.uploader); err != nil {
		return err
	}

	f.player.Moved = false
	f.dirty = false

	if f.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		f.log.WithFields(logrus.Fields{
			"frame": f.pipeline.Frames(),
			"x":     vp.X,
			"y":     vp.Y,
			"dir":   vp.Dir,
		}).Trace("frame")
	}
	return nil
}
