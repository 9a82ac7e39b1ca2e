package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// staticTypes is both the extension allow-list and the MIME table.
// Anything not listed here is refused, whatever the asset tree contains.
var staticTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".json":        "application/json",
	".svg":         "image/svg+xml",
	".png":         "image/png",
	".ico":         "image/x-icon",
	".webmanifest": "application/manifest+json",
	".txt":         "text/plain; charset=utf-8",
	".woff2":       "font/woff2",
}

const staticAllow = "GET, HEAD"

// StaticHandler serves files from an asset tree.
type StaticHandler struct {
	assets fs.FS
}

// NewStaticHandler returns a hardened file server rooted at assets.
func NewStaticHandler(assets fs.FS) *StaticHandler {
	return &StaticHandler{assets: assets}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", staticAllow)
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !safeRequestPath(r.URL.Path) {
		WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	name, ok := assetName(r.URL.Path)
	if !ok {
		WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	contentType, ok := staticTypes[strings.ToLower(path.Ext(name))]
	if !ok {
		WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	data, err := fs.ReadFile(h.assets, name)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			WriteError(w, http.StatusNotFound, "not found")
		case errors.Is(err, fs.ErrPermission):
			WriteError(w, http.StatusForbidden, "forbidden")
		default:
			WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	hdr := w.Header()
	hdr.Set("Content-Type", contentType)
	hdr.Set("ETag", etag)
	if strings.HasSuffix(name, ".html") {
		hdr.Set("Cache-Control", "no-cache")
	} else {
		hdr.Set("Cache-Control", "public, max-age=3600")
	}

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	hdr.Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

// assetName maps a request path onto a name inside the asset tree.
// Directories resolve to their index.html.
func assetName(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return "index.html", true
	}
	if strings.HasSuffix(urlPath, "/") {
		name += "/index.html"
	}
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

// safeRequestPath rejects NUL bytes, backslashes, ".." segments and
// dot-files. It checks the raw path, before any cleaning.
func safeRequestPath(p string) bool {
	if strings.ContainsAny(p, "\x00\\") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return false
		}
	}
	return true
}

// PathGuard refuses unsafe paths before the mux sees them. The mux would
// otherwise redirect "/a/../b" to its cleaned form instead of refusing it.
func PathGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !safeRequestPath(r.URL.Path) {
			WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
