package mockup

import (
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/youruser/mockupapp/internal/compositor"
	"github.com/youruser/mockupapp/internal/config"
	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/export"
	"github.com/youruser/mockupapp/internal/geometry"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/storage"
	"github.com/youruser/mockupapp/internal/util"
)

// FromConfig builds a Service and everything behind it. A nil sink is built
// from cfg.Output. The returned close function releases the sink's
// connections.
func FromConfig(cfg config.Config, l *log.Logger, sink storage.Sink) (*Service, func() error, error) {
	noop := func() error { return nil }

	if cfg.Images.ScratchDir != "" {
		if err := util.EnsureDir(cfg.Images.ScratchDir); err != nil {
			return nil, noop, errs.Wrap(errs.CodeInvalidInput, err, "scratch dir %s", cfg.Images.ScratchDir)
		}
	}
	var uploads imagepkg.UploadResolver
	if cfg.Images.UploadDir != "" {
		uploads = storage.UploadDir{Dir: cfg.Images.UploadDir}
	}
	resolver := imagepkg.NewResolver(imagepkg.Options{
		Uploads:      uploads,
		Timeout:      cfg.Images.Timeout,
		MinBytes:     cfg.Images.MinBytes,
		MaxBytes:     cfg.Images.MaxBytes,
		ScratchDir:   cfg.Images.ScratchDir,
		AssetBaseURL: cfg.Images.AssetBaseURL,
		LocalRoot:    cfg.Images.LocalRoot,
		Logger:       l,
	})

	fonts, err := compositor.NewFonts(cfg.Fonts)
	if err != nil {
		return nil, noop, errs.Wrap(errs.CodeInvalidInput, err, "load fonts")
	}
	out := geometry.Output{Width: cfg.Render.Width, Multiplier: cfg.Render.Multiplier}
	renderer, err := compositor.New(compositor.Options{
		Loader:        resolver,
		Fonts:         fonts,
		Output:        out,
		Logger:        l,
		Workers:       cfg.Render.Workers,
		MaxPixels:     cfg.Render.MaxPixels,
		Interpolation: cfg.Render.Interpolation,
	})
	if err != nil {
		return nil, noop, err
	}

	closeFn := noop
	if sink == nil {
		switch cfg.Output.Kind {
		case config.SinkRedis:
			client := redis.NewClient(&redis.Options{Addr: cfg.Output.RedisAddr})
			sink = storage.NewRedisSink(client, cfg.Output.RedisPrefix, cfg.Output.RedisTTL)
			closeFn = client.Close
		default:
			fs, err := storage.NewFileSink(cfg.Output.Dir)
			if err != nil {
				return nil, noop, err
			}
			sink = fs
		}
	}

	svc := NewService(renderer, export.Encoder{Recompress: cfg.Render.Recompress}, sink, out, l)
	return svc, closeFn, nil
}
