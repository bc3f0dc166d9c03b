// Package server is the live driver: a development HTTP server that applies
// compiler directives on the fly, per request, so the served site always
// reflects the current source tree without a build step.
package server

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Wyatt-Stanke/ctf/internal/directive"
)

// Server serves a challenge source directory with request-time directive
// processing. Requests are independent: the only shared state is the
// read-only source tree and the memoized shared assets, so no locking is
// needed per request.
type Server struct {
	root string
	log  *zap.Logger
	http *http.Server
}

// New creates a dev server rooted at root, listening on addr.
func New(root, addr string, log *zap.Logger) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{root: abs, log: log}
	s.http = &http.Server{Addr: addr, Handler: s}
	return s, nil
}

// Root returns the absolute source root being served.
func (s *Server) Root() string { return s.root }

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fsPath, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(fsPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if info.IsDir() {
		// Trailing slash keeps relative links in listings working,
		// matching nginx / Apache behaviour.
		if !strings.HasSuffix(r.URL.Path, "/") {
			url := r.URL.Path + "/"
			if r.URL.RawQuery != "" {
				url += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, url, http.StatusMovedPermanently)
			return
		}
		index := filepath.Join(fsPath, "index.html")
		if st, err := os.Stat(index); err != nil || st.IsDir() {
			s.serveAutoindex(w, r, fsPath)
			return
		}
		fsPath = index
	}

	kind := directive.Detect(fsPath)
	s.log.Debug("request",
		zap.String("path", r.URL.Path),
		zap.String("directive", kind.String()))

	switch kind {
	case directive.NoInclude:
		http.NotFound(w, r)
	case directive.None:
		// Standard static serving, including caching semantics.
		http.ServeFile(w, r, fsPath)
	default:
		s.serveTransformed(w, r, fsPath, kind)
	}
}

// serveTransformed re-applies the directive on every request — transformed
// output is never cached, and the response says so.
func (s *Server) serveTransformed(w http.ResponseWriter, r *http.Request, fsPath string, kind directive.Kind) {
	body, err := directive.Apply(fsPath, kind, s.urlPrefix(fsPath))
	if err != nil {
		s.log.Warn("directive failed",
			zap.String("path", r.URL.Path),
			zap.String("directive", kind.String()),
			zap.Error(err))
		http.Error(w, fmt.Sprintf("Directive error: %v", err), http.StatusInternalServerError)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(fsPath))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.Header().Set("Cache-Control", "no-cache")
	// A failed write means the client went away; that is a normal close,
	// never a server fault.
	_, _ = w.Write([]byte(body))
}

// serveAutoindex is the fallback listing for directories without an
// index.html, reusing the directory_listing renderer.
func (s *Server) serveAutoindex(w http.ResponseWriter, r *http.Request, dir string) {
	body, err := directive.RenderListing(dir, "", s.urlPrefix(filepath.Join(dir, "index.html")))
	if err != nil {
		http.Error(w, fmt.Sprintf("Listing error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(body))
}

// resolve maps a request path to an absolute filesystem path strictly
// confined under the source root. Traversal attempts resolve to not-found.
func (s *Server) resolve(urlPath string) (string, bool) {
	// Clean a rooted copy of the path; ".." segments cannot climb above
	// the virtual root.
	clean := path.Clean("/" + urlPath)
	fsPath := filepath.Join(s.root, filepath.FromSlash(clean))

	if fsPath != s.root && !strings.HasPrefix(fsPath, s.root+string(filepath.Separator)) {
		return "", false
	}
	return fsPath, true
}

// urlPrefix returns the slash-terminated URL path of the directory holding
// fsPath, relative to the source root.
func (s *Server) urlPrefix(fsPath string) string {
	rel, err := filepath.Rel(s.root, filepath.Dir(fsPath))
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel) + "/"
}
