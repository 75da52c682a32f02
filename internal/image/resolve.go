// Package imagepkg resolves image references (upload tokens, remote URLs,
// local paths) to decoded bitmaps. Formats are detected from magic bytes and
// anything other than PNG, JPEG or GIF is transcoded to PNG before decoding.
package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
	"github.com/youruser/mockupapp/internal/util"
)

// BlobPrefix marks a reference to a locally stored upload.
const BlobPrefix = "blob:"

// Defaults for Options.
const (
	DefaultMinBytes = 4
	DefaultMaxBytes = 50 << 20
)

// UploadResolver maps an upload token to a local file path. Implementations
// return an error wrapping errs.ErrNotFound for unknown tokens.
type UploadResolver interface {
	ResolveUploadToken(token string) (string, error)
}

// Source tells where a reference was loaded from.
type Source string

const (
	SourceUpload Source = "upload"
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Options configures a Resolver.
type Options struct {
	Uploads    UploadResolver
	HTTPClient *http.Client
	// Timeout bounds each download when HTTPClient is nil.
	Timeout time.Duration
	// MinBytes is the smallest body accepted from a remote server.
	MinBytes int
	MaxBytes int64
	// ScratchDir receives downloaded files. Empty keeps downloads in memory.
	ScratchDir string
	// AssetBaseURL turns root-relative references ("/stickers/a.png") into
	// remote URLs. Empty treats them as local paths.
	AssetBaseURL string
	// LocalRoot confines local paths. Empty allows any path.
	LocalRoot string
	Logger    *log.Logger
}

// Resolver turns image references into decoded bitmaps. It holds no per-render
// state and is safe for concurrent use.
type Resolver struct {
	opts   Options
	client *http.Client
	log    *log.Logger
}

// NewResolver returns a Resolver with defaults filled in.
func NewResolver(opts Options) *Resolver {
	if opts.MinBytes <= 0 {
		opts.MinBytes = DefaultMinBytes
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	client := opts.HTTPClient
	if client == nil {
		client = util.NewHTTPClient(opts.Timeout)
	}
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	return &Resolver{opts: opts, client: client, log: l}
}

// Blob is the raw content behind a reference.
type Blob struct {
	Ref    string
	Source Source
	// Path is the local file the bytes came from, or the scratch file a
	// download was written to.
	Path    string
	Scratch bool
	Data    []byte
}

// Record is a decoded image, keyed by its original reference string.
type Record struct {
	Ref         string
	Source      Source
	Format      Format
	Transcoded  bool
	Image       image.Image
	scratchPath string
}

// Size returns the natural pixel size of the bitmap.
func (r *Record) Size() geometry.Size {
	b := r.Image.Bounds()
	return geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}
}

// Fetch obtains the bytes behind ref. Rules are tried in order: upload token,
// absolute http(s) URL, root-relative URL against AssetBaseURL, local path.
func (r *Resolver) Fetch(ctx context.Context, ref string) (*Blob, error) {
	switch {
	case ref == "":
		return nil, errs.New(errs.CodeReferenceNotFound, "empty image reference")
	case strings.HasPrefix(ref, BlobPrefix):
		return r.fetchUpload(ref)
	case isRemote(ref):
		return r.download(ctx, ref, ref)
	case r.opts.AssetBaseURL != "" && strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//"):
		return r.download(ctx, ref, strings.TrimRight(r.opts.AssetBaseURL, "/")+ref)
	default:
		return r.fetchLocal(ref)
	}
}

// Load fetches, normalizes and decodes ref.
func (r *Resolver) Load(ctx context.Context, ref string) (*Record, error) {
	blob, err := r.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	rec := &Record{Ref: ref, Source: blob.Source}
	if blob.Scratch {
		rec.scratchPath = blob.Path
	}

	norm, err := Normalize(blob.Data)
	if err != nil {
		removeScratch(rec)
		return nil, err
	}
	if norm.Transcoded {
		r.log.Debug("transcoded image", "ref", ref, "from", norm.Original)
	}

	img, err := imaging.Decode(bytes.NewReader(norm.Data), imaging.AutoOrientation(true))
	if err != nil {
		removeScratch(rec)
		return nil, errs.Wrap(errs.CodeDecodeFailed, err, "decode %s", ref)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		removeScratch(rec)
		return nil, errs.New(errs.CodeDecodeFailed, "decode %s: empty bitmap", ref)
	}
	rec.Format = norm.Original
	rec.Transcoded = norm.Transcoded
	rec.Image = img
	return rec, nil
}

// UploadToken extracts the token from a blob reference: the last path
// segment of whatever follows the prefix.
func UploadToken(ref string) string {
	rest := strings.TrimPrefix(ref, BlobPrefix)
	rest = strings.TrimRight(rest, "/")
	return path.Base(rest)
}

func (r *Resolver) fetchUpload(ref string) (*Blob, error) {
	token := UploadToken(ref)
	if r.opts.Uploads == nil || token == "" || token == "." || token == "/" {
		return nil, errs.New(errs.CodeReferenceNotFound, "no upload for %s", ref)
	}
	p, err := r.opts.Uploads.ResolveUploadToken(token)
	if err != nil {
		return nil, errs.Wrap(errs.CodeReferenceNotFound, err, "upload token %q", token)
	}
	data, err := readFile(p)
	if err != nil {
		return nil, err
	}
	return &Blob{Ref: ref, Source: SourceUpload, Path: p, Data: data}, nil
}

func (r *Resolver) fetchLocal(ref string) (*Blob, error) {
	p := ref
	if root := r.opts.LocalRoot; root != "" {
		p = filepath.Join(root, filepath.FromSlash(ref))
		if !util.Within(root, p) {
			return nil, errs.New(errs.CodeReferenceNotFound, "path %q escapes the asset root", ref)
		}
	}
	data, err := readFile(p)
	if err != nil {
		return nil, err
	}
	return &Blob{Ref: ref, Source: SourceLocal, Path: p, Data: data}, nil
}

func readFile(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.CodeFileNotFound, err, "image file %s", p)
		}
		return nil, errs.Wrap(errs.CodeReferenceNotFound, err, "stat %s", p)
	}
	if info.IsDir() {
		return nil, errs.New(errs.CodeFileNotFound, "image file %s is a directory", p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errs.Wrap(errs.CodeReferenceNotFound, err, "read %s", p)
	}
	return data, nil
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func removeScratch(rec *Record) {
	if rec.scratchPath != "" {
		os.Remove(rec.scratchPath)
		rec.scratchPath = ""
	}
}
