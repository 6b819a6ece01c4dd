package terminal

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"gridcaster/engine"
	"gridcaster/internal/config"
	"gridcaster/internal/logger"
	"gridcaster/model"
)

// WritePNG encodes buf as an opaque PNG.
func WritePNG(w io.Writer, buf *engine.PixelBuffer) error {
	return png.Encode(w, buf)
}

// Snapshot renders one frame from the configured start position into path
// without touching the terminal.
func Snapshot(s *config.Settings, path string) error {
	pipeline, err := engine.NewPipeline(s.Engine, s.Level, s.Window)
	if err != nil {
		return err
	}

	vp, err := model.NewPlayer(s.Start.X, s.Start.Y, s.Start.Dir).Snapshot()
	if err != nil {
		return err
	}
	buf, err := pipeline.Step(vp)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := WritePNG(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Component("terminal").WithFields(logrus.Fields{
		"path": path,
		"size": fmt.Sprintf("%dx%d", buf.Width(), buf.Height()),
	}).Info("Snapshot written.")

	return nil
}
