// Package mockup is the entry point shared by the CLI and the HTTP server:
// it renders a scene, encodes the result and hands it to a sink.
package mockup

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/youruser/mockupapp/internal/compositor"
	"github.com/youruser/mockupapp/internal/export"
	"github.com/youruser/mockupapp/internal/geometry"
	"github.com/youruser/mockupapp/internal/scene"
	"github.com/youruser/mockupapp/internal/storage"
)

// Renderer is the compositor surface the service depends on.
type Renderer interface {
	RenderWith(ctx context.Context, sc *scene.Scene, out geometry.Output) (*compositor.Result, error)
}

// Service restores mockups.
type Service struct {
	renderer Renderer
	encoder  export.Encoder
	sink     storage.Sink
	output   geometry.Output
	log      *log.Logger
}

// NewService wires a service. out is the default output resolution.
func NewService(r Renderer, enc export.Encoder, sink storage.Sink, out geometry.Output, l *log.Logger) *Service {
	if l == nil {
		l = log.Default()
	}
	return &Service{renderer: r, encoder: enc, sink: sink, output: out, log: l}
}

// Request is one restore call.
type Request struct {
	Scene *scene.Scene
	// Output overrides the service default when non-zero.
	Output geometry.Output
}

// Output describes a stored mockup.
type Output struct {
	MockupID   string            `json:"mockupId"`
	StoredPath string            `json:"outputPath"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Skipped    []compositor.Skip `json:"skipped"`
	Duration   time.Duration     `json:"-"`
	PNG        []byte            `json:"-"`
}

// Restore renders, encodes and stores the scene. A scene without a mockup id
// is stored under a fresh one; the scene itself is not modified.
func (s *Service) Restore(ctx context.Context, req Request) (*Output, error) {
	start := time.Now()
	sc := req.Scene
	if sc == nil {
		return nil, fmt.Errorf("mockup: nil scene")
	}
	id := sc.MockupID
	if id == "" {
		id = uuid.NewString()
	}
	if err := storage.CheckID(id); err != nil {
		return nil, err
	}
	out := s.output
	if req.Output != (geometry.Output{}) {
		out = req.Output
	}

	l := s.log.With("mockup", id)
	l.Info("restoring mockup", "layout", sc.LayoutMode, "elements", len(sc.Ordered()))

	res, err := s.renderer.RenderWith(ctx, sc, out)
	if err != nil {
		l.Error("render failed", "err", err)
		return nil, err
	}
	data, err := s.encoder.Encode(res.Image)
	if err != nil {
		l.Error("export failed", "err", err)
		return nil, err
	}
	if err := res.Advance(compositor.StageExported); err != nil {
		return nil, err
	}
	loc, err := s.sink.Store(ctx, id, data)
	if err != nil {
		l.Error("store failed", "err", err)
		return nil, err
	}

	o := &Output{
		MockupID:   id,
		StoredPath: loc,
		Width:      res.Width,
		Height:     res.Height,
		Skipped:    res.Skipped,
		Duration:   time.Since(start),
		PNG:        data,
	}
	if o.Skipped == nil {
		o.Skipped = []compositor.Skip{}
	}
	l.Info("mockup stored", "path", loc, "width", o.Width, "height", o.Height,
		"skipped", len(o.Skipped), "took", o.Duration)
	return o, nil
}

// Fetch returns a previously stored mockup.
func (s *Service) Fetch(ctx context.Context, id string) ([]byte, error) {
	return s.sink.Load(ctx, id)
}
