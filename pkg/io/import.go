package io

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/matzehuels/asgraph/pkg/errors"
	"github.com/matzehuels/asgraph/pkg/httputil"
)

// OpenInput opens the file at path for reading, decompressing ".gz" and
// ".bz2" files on the fly. The caller must close the returned reader.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	return decompress(path, f)
}

// ReadInput reads the whole (possibly compressed) file at path.
func ReadInput(path string) ([]byte, error) {
	r, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	return readAll(path, r)
}

// ReadSource reads src, which is either a local path or an http(s) URL.
// Downloads are decompressed by the suffix of the URL path.
func ReadSource(ctx context.Context, src string) ([]byte, error) {
	if !httputil.IsURL(src) {
		return ReadInput(src)
	}

	body, err := httputil.Fetch(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	name := src
	if u, err := url.Parse(src); err == nil {
		name = u.Path
	}
	r, err := decompress(name, io.NopCloser(bytes.NewReader(body)))
	if err != nil {
		return nil, err
	}
	return readAll(src, r)
}

func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "gzip %s", name)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case strings.HasSuffix(name, ".bz2"):
		return &stackedReader{Reader: bzip2.NewReader(rc), closers: []io.Closer{rc}}, nil
	default:
		return rc, nil
	}
}

func readAll(name string, r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return data, nil
}

// stackedReader reads from a decompressor and closes every layer beneath it.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
