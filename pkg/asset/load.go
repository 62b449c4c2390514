package asset

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/httputil"
)

// Load reads an asset from a data URL, an http(s) URL or a file path and
// returns its raw bytes. Remote fetches are retried on transient failures.
func Load(ctx context.Context, src string) ([]byte, error) {
	switch {
	case src == "":
		return nil, errors.New(errors.ErrCodeAssetMissing, "empty asset source")
	case strings.HasPrefix(src, "data:"):
		_, data, err := ParseDataURL(src)
		return data, err
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return httputil.Fetch(ctx, http.DefaultClient, src, 0)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeAssetMissing, err, "asset %s", src)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", src)
	}
	return data, nil
}

// LoadAll loads every source in order and stops at the first failure.
func LoadAll(ctx context.Context, srcs []string) ([][]byte, error) {
	out := make([][]byte, 0, len(srcs))
	for _, s := range srcs {
		data, err := Load(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
