package http

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
)

var (
	inflaters = sync.Pool{New: func() any { return new(gzip.Reader) }}
	deflaters = sync.Pool{New: func() any { return gzip.NewWriter(io.Discard) }}
)

// withGZip inflates gzip request bodies (large reconcile batches) and
// compresses responses for clients that accept gzip.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasGZip(r.Header.Get("Content-Encoding")) {
			if err := inflateBody(r); err != nil {
				logger.FromRequest(r).Err(err).Str("func", "withGZip").Send()
				http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
				return
			}
		}

		if !hasGZip(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.finish()
		next.ServeHTTP(gw, r)
	})
}

func hasGZip(header string) bool {
	return strings.Contains(header, "gzip")
}

func inflateBody(r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	zr := inflaters.Get().(*gzip.Reader)
	if err := zr.Reset(r.Body); err != nil {
		inflaters.Put(zr)
		return fmt.Errorf("gzip request body: %w", err)
	}

	r.Body = &inflatedBody{Reader: zr, zr: zr, orig: r.Body}
	r.Header.Del("Content-Encoding")
	r.Header.Del("Content-Length")
	r.ContentLength = -1
	return nil
}

// inflatedBody returns its reader to the pool on the first Close.
type inflatedBody struct {
	io.Reader
	zr   *gzip.Reader
	orig io.ReadCloser
}

func (b *inflatedBody) Close() error {
	if b.zr == nil {
		return nil
	}
	_ = b.zr.Close()
	inflaters.Put(b.zr)
	b.zr = nil
	b.Reader = strings.NewReader("")
	return b.orig.Close()
}

// gzipResponseWriter takes a pooled gzip.Writer on the first body write.
// 204 and 304 responses are sent unencoded.
type gzipResponseWriter struct {
	http.ResponseWriter
	zw          *gzip.Writer
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if statusCode != http.StatusNoContent && statusCode != http.StatusNotModified {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.Header().Get("Content-Encoding") != "gzip" {
		return w.ResponseWriter.Write(data)
	}
	if w.zw == nil {
		w.zw = deflaters.Get().(*gzip.Writer)
		w.zw.Reset(w.ResponseWriter)
	}
	return w.zw.Write(data)
}

func (w *gzipResponseWriter) finish() {
	if w.zw == nil {
		return
	}
	_ = w.zw.Close()
	deflaters.Put(w.zw)
	w.zw = nil
}
