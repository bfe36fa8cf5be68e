// Package assets opens bootstrap datasets from disk or over HTTP, keeping a
// local copy of downloads.
package assets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sudorandom/route-globe/pkg/logging"
)

var ErrNotFound = errors.New("file not found on server")

type progressWriter struct {
	io.Writer
	total uint64
	last  uint64
	label string
	log   zerolog.Logger
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total-pw.last > 1024*1024 {
		pw.log.Debug().Str("file", pw.label).Uint64("kb", pw.total/1024).Msg("downloading")
		pw.last = pw.total
	}
	return n, err
}

// IsURL reports whether src should be fetched over HTTP.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Download fetches url into path. The file only appears once complete.
func Download(url, path string) error {
	log := logging.With("assets")
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("closing response body")
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", tmpName).Msg("removing temp file")
		}
	}()

	pw := &progressWriter{Writer: tmpFile, label: filepath.Base(path), log: log}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// CacheFileName is the name a download of url is stored under.
func CacheFileName(url string) string {
	url = strings.SplitN(url, "?", 2)[0]
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "_" + parts[len(parts)-1]
	}
	return parts[len(parts)-1]
}

// Open returns a reader for src, which is either a local path or a URL.
// URLs are downloaded into cacheDir once; an empty cacheDir streams them.
func Open(src, cacheDir string) (io.ReadCloser, error) {
	log := logging.With("assets")
	if !IsURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", src, err)
		}
		return f, nil
	}

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
		localPath := filepath.Join(cacheDir, CacheFileName(src))
		if _, err := os.Stat(localPath); os.IsNotExist(err) {
			log.Info().Str("url", src).Msg("downloading")
			if err := Download(src, localPath); err != nil {
				return nil, err
			}
		} else {
			log.Debug().Str("file", localPath).Msg("using cached file")
		}
		f, err := os.Open(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		return f, nil
	}

	log.Info().Str("url", src).Msg("streaming")
	resp, err := http.Get(src)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp.Body, nil
}
