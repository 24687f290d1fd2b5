package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// Index is the document served for every path that is not a file in the static directory.
const Index = "index.html"

// Static serves the single page application build in dir.
// Paths that do not resolve to a file fall back to the index document,
// so that client side routes load the application.
func Static(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err != nil || info.IsDir() {
			name = filepath.Join(dir, Index)
		}
		serveFile(w, r, name)
	})
}

func serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
