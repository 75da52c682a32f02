// Package compositor paints a scene onto a raster surface.
//
// A render walks fixed stages: background, print-area outline, layout slots,
// then user elements in z-order. Every image the scene references is fetched
// once into a per-render cache before painting starts. A missing or broken
// image only drops its own layer; geometry and surface failures abort.
package compositor

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/scene"
	"github.com/youruser/mockupapp/internal/util"
)

// DefaultMultiplier renders at eight times the authored size when no output
// width is requested.
const DefaultMultiplier = 8

// DefaultWorkers bounds concurrent image fetches per render.
const DefaultWorkers = 4

// Options configures a Renderer.
type Options struct {
	Loader imagepkg.Loader
	Fonts  *Fonts
	Output geometry.Output
	Logger *log.Logger
	Hooks  Hooks
	// Workers bounds the prefetch fan-out.
	Workers int
	// MaxPixels caps the output surface area.
	MaxPixels int64
	// Interpolation names the resampling kernel; see Interpolator.
	Interpolation string
}

// Skip records a layer that was left out of the result.
type Skip struct {
	Layer Layer  `json:"layer"`
	ID    string `json:"id"`
	Code  string `json:"code"`
	Err   error  `json:"-"`
}

// Result is a finished render.
type Result struct {
	Image   *image.RGBA
	Width   int
	Height  int
	Scale   geometry.Scale
	Skipped []Skip
	Stage   Stage
	Cache   imagepkg.Stats
}

// Advance moves the result to stage to.
func (res *Result) Advance(to Stage) error {
	s, err := res.Stage.next(to)
	res.Stage = s
	return err
}

// Renderer draws scenes. It keeps no per-render state and may be used from
// several goroutines at once.
type Renderer struct {
	opts Options
	log  *log.Logger
}

// New returns a Renderer with defaults filled in.
func New(opts Options) (*Renderer, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("compositor: a loader is required")
	}
	if opts.Fonts == nil {
		f, err := NewFonts(nil)
		if err != nil {
			return nil, err
		}
		opts.Fonts = f
	}
	if opts.Output.Width <= 0 && opts.Output.Multiplier <= 0 {
		opts.Output.Multiplier = DefaultMultiplier
	}
	if opts.Hooks == nil {
		opts.Hooks = NoopHooks{}
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	return &Renderer{opts: opts, log: l}, nil
}

// run is the state of a single render.
type run struct {
	ctx     context.Context
	opts    *Options
	log     *log.Logger
	scene   *scene.Scene
	scale   geometry.Scale
	origin  geometry.Point
	surface *Surface
	cache   *imagepkg.Cache
	res     *Result
}

// Render paints sc. The returned result is at StageElementsDrawn.
func (r *Renderer) Render(ctx context.Context, sc *scene.Scene) (*Result, error) {
	return r.RenderWith(ctx, sc, r.opts.Output)
}

// RenderWith paints sc at the given output resolution.
func (r *Renderer) RenderWith(ctx context.Context, sc *scene.Scene, out geometry.Output) (*Result, error) {
	start := time.Now()
	l := r.log.With("mockup", sc.MockupID)

	scale, err := geometry.ScaleFactors(sc.ContainerSize(), out)
	if err != nil {
		return nil, err
	}
	w, h, err := surfaceSize(sc.ContainerSize(), scale, r.opts.MaxPixels)
	if err != nil {
		return nil, err
	}
	surface, err := NewSurface(w, h, r.opts.MaxPixels, Interpolator(r.opts.Interpolation))
	if err != nil {
		return nil, err
	}
	l.Debug("surface ready", "width", w, "height", h, "scale", scale.X, "dpr", sc.DevicePixelRatio)

	cache := imagepkg.NewCache(r.opts.Loader)
	defer cache.Release()

	rn := &run{
		ctx:     util.WithLogger(ctx, l),
		opts:    &r.opts,
		log:     l,
		scene:   sc,
		scale:   scale,
		origin:  sc.Container.Position(),
		surface: surface,
		cache:   cache,
		res:     &Result{Image: surface.Image(), Width: w, Height: h, Scale: scale},
	}

	rn.prefetch()

	steps := []struct {
		to   Stage
		draw func() error
	}{
		{StageBackgroundDrawn, rn.drawBackground},
		{StageOutlineDrawn, rn.drawOutline},
		{StageSlotsDrawn, rn.drawSlots},
		{StageElementsDrawn, rn.drawElements},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.draw(); err != nil {
			return nil, err
		}
		if err := rn.res.Advance(step.to); err != nil {
			return nil, err
		}
	}

	rn.res.Cache = cache.Stats()
	util.Elapsed(l, start, "render finished", "skipped", len(rn.res.Skipped))
	return rn.res, nil
}

// prefetch loads every referenced image into the cache concurrently.
// Failures are cached and surface when the layer is drawn.
func (r *run) prefetch() {
	refs := r.references()
	if len(refs) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for _, ref := range refs {
		g.Go(func() error {
			r.cache.Get(r.ctx, ref)
			return nil
		})
	}
	g.Wait()
}

func (r *run) references() []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	add(r.scene.Background())
	if r.scene.DrawsSlots() {
		for _, s := range r.scene.LayoutSlots() {
			add(s.PlacedImage.ImageURL)
		}
	}
	for _, e := range r.scene.Ordered() {
		if ie, ok := e.(scene.ImageElement); ok {
			add(ie.Ref())
		}
	}
	return refs
}

// layer records the outcome of one layer. Fatal errors are returned; the
// rest are recorded as skips. Missing or unreadable images are expected and
// logged as warnings, anything else as an error.
func (r *run) layer(kind Layer, id string, err error) error {
	if err == nil {
		r.opts.Hooks.OnLayerDrawn(r.ctx, kind, id)
		return nil
	}
	if errs.Fatal(err) {
		return err
	}
	if errs.Recoverable(err) {
		r.log.Warn("skipping layer", "kind", kind, "id", id, "err", err)
	} else {
		r.log.Error("skipping layer", "kind", kind, "id", id, "err", err)
	}
	r.res.Skipped = append(r.res.Skipped, Skip{Layer: kind, ID: id, Code: string(errs.CodeOf(err)), Err: err})
	r.opts.Hooks.OnLayerSkipped(r.ctx, kind, id, err)
	return nil
}
