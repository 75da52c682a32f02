package imagepkg

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/util"
)

// download fetches url for ref. The response must be 2xx, declare an image
// content type and carry at least MinBytes. There are no retries.
func (r *Resolver) download(ctx context.Context, ref, url string) (*Blob, error) {
	r.log.Debug("downloading image", "url", url)
	resp, err := util.GetBytes(ctx, r.client, url, r.opts.MaxBytes)
	if err != nil {
		return nil, errs.Wrap(errs.CodeDownloadFailed, err, "GET %s", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.New(errs.CodeDownloadFailed, "GET %s: status %d", url, resp.StatusCode)
	}
	ct := strings.ToLower(strings.TrimSpace(resp.ContentType))
	if !strings.HasPrefix(ct, "image/") {
		return nil, errs.New(errs.CodeDownloadFailed, "GET %s: content type %q is not an image", url, resp.ContentType)
	}
	if len(resp.Body) < r.opts.MinBytes {
		return nil, errs.New(errs.CodeDownloadFailed, "GET %s: body of %d bytes is too small", url, len(resp.Body))
	}

	blob := &Blob{Ref: ref, Source: SourceRemote, Data: resp.Body}
	if dir := r.opts.ScratchDir; dir != "" {
		p, err := writeScratch(dir, url, resp.Body)
		if err != nil {
			return nil, errs.Wrap(errs.CodeDownloadFailed, err, "spool %s", url)
		}
		blob.Path, blob.Scratch = p, true
	}
	return blob, nil
}

func writeScratch(dir, url string, data []byte) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	ext := path.Ext(strings.SplitN(url, "?", 2)[0])
	if len(ext) > 8 || strings.ContainsAny(ext, `/\*`) {
		ext = ""
	}
	f, err := os.CreateTemp(dir, "remote-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
