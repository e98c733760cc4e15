// assets.go
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// workspaceFilePrefix is the URL prefix under which previews load workspace files
const workspaceFilePrefix = "/workspace-file/"

// FileLoader serves files of the open workspace, such as images referenced by
// a note, to the frontend. Paths are relative to the workspace directory.
type FileLoader struct {
	workspaceDir func() string
	log          logger.Logger
}

// NewFileLoader creates a FileLoader that resolves against workspaceDir
func NewFileLoader(workspaceDir func() string, log logger.Logger) *FileLoader {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &FileLoader{workspaceDir: workspaceDir, log: log}
}

// ServeHTTP handles HTTP requests for workspace files
func (f *FileLoader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, workspaceFilePrefix) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rel, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, workspaceFilePrefix))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(fmt.Sprintf("Could not decode path: %s", r.URL.Path)))
		return
	}

	root := f.workspaceDir()
	if root == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	path, ok := resolveInside(root, rel)
	if !ok {
		f.log.Warning(fmt.Sprintf("[FileLoader] Forbidden: %s", rel))
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(fmt.Sprintf("Forbidden: %s", rel)))
		return
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		f.log.Debug(fmt.Sprintf("[FileLoader] ReadFile error: %v", err))
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(fmt.Sprintf("Could not load file: %s", rel)))
		return
	}

	w.Header().Set("Content-Type", contentType(path))
	w.WriteHeader(http.StatusOK)
	w.Write(fileData)
}

// resolveInside joins rel onto root and rejects results outside root
func resolveInside(root, rel string) (string, bool) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", false
	}
	root = filepath.Clean(root)
	path := filepath.Join(root, filepath.FromSlash(rel))
	r, err := filepath.Rel(root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".bmp":
		return "image/bmp"
	case ".md", ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
