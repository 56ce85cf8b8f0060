package ingest

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// openSource opens path and transparently decompresses it if the extension
// names a supported compression format, using the same detection approach
// as app/fileloader/compression.go — here keyed off the extension rather
// than magic bytes, since the offer/hotel stream is read forward-only and
// never seeked back to re-sniff.
func openSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errSourceUnavailable("opening source "+path, err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errSourceUnavailable("reading gzip header of "+path, err)
		}
		return &readCloserPair{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errSourceUnavailable("reading xz header of "+path, err)
		}
		return &readCloserPair{Reader: xr, closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

// readCloserPair adapts a decompressor (which may not itself implement
// io.Closer, as with xz.Reader) plus its underlying file into one Close.
type readCloserPair struct {
	io.Reader
	closers []io.Closer
}

func (p *readCloserPair) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
