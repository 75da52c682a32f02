package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/youruser/mockupapp/internal/errs"
)

// UploadDir resolves upload tokens to files in a directory. A token matches
// a file of exactly that name, otherwise the first file, in name order,
// whose name contains it.
type UploadDir struct {
	Dir string
}

// ResolveUploadToken implements imagepkg.UploadResolver.
func (u UploadDir) ResolveUploadToken(token string) (string, error) {
	if token == "" || strings.ContainsAny(token, `/\`) || token == ".." {
		return "", fmt.Errorf("upload token %q: %w", token, errs.ErrNotFound)
	}
	exact := filepath.Join(u.Dir, token)
	if info, err := os.Stat(exact); err == nil && info.Mode().IsRegular() {
		return exact, nil
	}

	entries, err := os.ReadDir(u.Dir)
	if err != nil {
		return "", fmt.Errorf("read uploads %s: %w", u.Dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.Contains(e.Name(), token) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("upload token %q: %w", token, errs.ErrNotFound)
	}
	sort.Strings(names)
	return filepath.Join(u.Dir, names[0]), nil
}
