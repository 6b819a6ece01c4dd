package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gridcaster/internal/logger"
	"gridcaster/level"
)

// TextureUploader takes a finished pixel buffer to wherever it is displayed.
type TextureUploader interface {
	Upload(buf *PixelBuffer) error
}

// Renderer draws a range of interleaved vertices.
type Renderer interface {
	DrawArrays(call DrawCall, vertices []float32)
}

// Pipeline owns one frame's worth of buffers and runs cast then project.
type Pipeline struct {
	cfg       Config
	lvl       *level.Level
	caster    *Caster
	projector *Projector
	overlay   *OverlayBuilder
	rays      *Rays
	pixels    *PixelBuffer
	frames    uint64
	log       *logrus.Entry
}

func NewPipeline(cfg Config, lvl *level.Level, win Window) (*Pipeline, error) {
	caster, err := NewCaster(cfg, lvl)
	if err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}
	projector, err := NewProjector(cfg)
	if err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}

	p := &Pipeline{
		cfg:       cfg,
		lvl:       lvl,
		caster:    caster,
		projector: projector,
		overlay:   NewOverlayBuilder(cfg, lvl, win),
		rays:      NewRays(cfg.Rays),
		pixels:    NewPixelBuffer(cfg.RenderWidth, cfg.RenderHeight),
		log:       logger.Component("pipeline"),
	}

	p.log.WithFields(logrus.Fields{
		"map":    fmt.Sprintf("%dx%d", lvl.Width(), lvl.Height()),
		"rays":   cfg.Rays,
		"render": fmt.Sprintf("%dx%d", cfg.RenderWidth, cfg.RenderHeight),
		"fov":    cfg.FOV,
	}).Debug("Pipeline ready.")

	return p, nil
}

func (p *Pipeline) Config() Config      { return p.cfg }
func (p *Pipeline) Level() *level.Level { return p.lvl }
func (p *Pipeline) Rays() *Rays         { return p.rays }
func (p *Pipeline) Frames() uint64      { return p.frames }

// Step casts the rays for vp and projects them into the pixel buffer.
func (p *Pipeline) Step(vp Viewpoint) (*PixelBuffer, error) {
	if err := p.caster.Cast(vp, p.rays); err != nil {
		return nil, err
	}
	if err := p.projector.Draw(p.pixels, p.rays, p.cfg.Palette); err != nil {
		return nil, err
	}
	p.frames++
	return p.pixels, nil
}

// Present hands the current pixel buffer to up.
func (p *Pipeline) Present(up TextureUploader) error {
	if err := up.Upload(p.pixels); err != nil {
		return fmt.Errorf("upload frame %d: %w", p.frames, err)
	}
	return nil
}

// Overlay builds debug geometry from the most recent Step.
func (p *Pipeline) Overlay(vp Viewpoint) *Overlay {
	return p.overlay.Build(vp, p.rays)
}
