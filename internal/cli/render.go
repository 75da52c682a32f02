package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
	"github.com/youruser/mockupapp/internal/mockup"
	"github.com/youruser/mockupapp/internal/scene"
	"github.com/youruser/mockupapp/internal/storage"
)

type renderOpts struct {
	output     string  // PNG path; empty stores through the configured sink
	width      int     // output width in pixels
	multiplier float64 // authored-to-output factor when width is unset
	uploads    string  // directory that resolves blob: references
	assetBase  string  // base URL for root-relative references
}

func newRenderCmd(root *rootOpts) *cobra.Command {
	opts := renderOpts{}
	cmd := &cobra.Command{
		Use:   "render <scene.json>",
		Short: "Render a scene file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.width < 0 || opts.multiplier < 0 {
				return fmt.Errorf("--width and --multiplier must not be negative")
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), root, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG file")
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width in pixels")
	cmd.Flags().Float64Var(&opts.multiplier, "multiplier", 0, "scale factor when --width is not set (default from config)")
	cmd.Flags().StringVar(&opts.uploads, "uploads", "", "directory holding uploaded images")
	cmd.Flags().StringVar(&opts.assetBase, "asset-base", "", "base URL for root-relative image paths")
	cmd.MarkFlagsMutuallyExclusive("width", "multiplier")
	return cmd
}

func runRender(ctx context.Context, w io.Writer, root *rootOpts, path string, opts renderOpts) error {
	cfg, l, err := root.loadConfig(ctx)
	if err != nil {
		return err
	}
	if opts.uploads != "" {
		cfg.Images.UploadDir = opts.uploads
	}
	if opts.assetBase != "" {
		cfg.Images.AssetBaseURL = opts.assetBase
	}

	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap(errs.CodeInvalidInput, err, "open scene")
	}
	defer f.Close()
	sc, err := scene.Decode(f)
	if err != nil {
		return err
	}

	var sink storage.Sink
	if opts.output != "" {
		sink = storage.PathSink{Path: opts.output}
	}
	svc, closeSink, err := mockup.FromConfig(cfg, l, sink)
	if err != nil {
		return err
	}
	defer closeSink()

	out, err := svc.Restore(ctx, mockup.Request{
		Scene:  sc,
		Output: geometry.Output{Width: opts.width, Multiplier: opts.multiplier},
	})
	if err != nil {
		return err
	}
	for _, s := range out.Skipped {
		l.Warn("layer skipped", "kind", s.Layer, "id", s.ID, "code", s.Code)
	}
	fmt.Fprintf(w, "%s %dx%d\n", out.StoredPath, out.Width, out.Height)
	return nil
}
