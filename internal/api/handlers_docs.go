package api

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/parser"
)

// handleDocument parses <root>/<name>.resume with imports resolved from the
// same directory.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validDocumentName(name) {
		jsonError(w, "invalid document name", http.StatusBadRequest)
		return
	}
	format, err := ast.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	bestEffort, ok := bestEffortParam(w, r)
	if !ok {
		return
	}

	path := filepath.ToSlash(filepath.Join(s.cfg.RootDir, parser.NormalizeImportPath(name)))
	src, err := s.docs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, "document not found: "+name, http.StatusNotFound)
			return
		}
		s.log.Error("read document", "path", path, "error", err)
		jsonError(w, "failed to read document", http.StatusInternalServerError)
		return
	}

	mode := s.cfg.Mode()
	if bestEffort {
		mode = parser.ModeBestEffort
	}
	root, err := s.newParser(mode, s.docs, s.cfg.RootDir).Parse(src)
	s.writeResult(w, format, root, err)
}

func validDocumentName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
