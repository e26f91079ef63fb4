package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/parser"
	"github.com/dgallion1/resumelang/internal/printer"
	"github.com/dgallion1/resumelang/internal/source"
)

// parseRequest is the JSON body of /api/parse and /api/format. A text/plain
// body is treated as Source alone.
type parseRequest struct {
	Source     string            `json:"source"`
	Files      map[string]string `json:"files,omitempty"`
	BestEffort bool              `json:"best_effort"`
}

type parseResponse struct {
	AST   *ast.Root `json:"ast" yaml:"ast"`
	Error string    `json:"error,omitempty" yaml:"error,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	format, err := ast.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	root, err := s.parseRequest(req)
	s.writeResult(w, format, root, err)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	root, err := s.parseRequest(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	out, err := printer.Sprint(root)
	if err != nil {
		jsonError(w, "failed to print document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, out)
}

// parseRequest parses req.Source. Inline files back @import when present;
// otherwise imports resolve against the configured root directory.
func (s *Server) parseRequest(req parseRequest) (*ast.Root, error) {
	mode := s.cfg.Mode()
	if req.BestEffort {
		mode = parser.ModeBestEffort
	}

	var (
		reader  source.Reader = s.docs
		rootDir               = s.cfg.RootDir
	)
	if len(req.Files) > 0 {
		reader = source.Map(req.Files)
		rootDir = "."
	}
	return s.newParser(mode, reader, rootDir).Parse(req.Source)
}

// readRequest decodes the body, writing an error response on failure.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (parseRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSourceBytes)

	var req parseRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			bodyError(w, err)
			return req, false
		}
	} else {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			bodyError(w, err)
			return req, false
		}
		req.Source = string(data)
	}

	bestEffort, ok := bestEffortParam(w, r)
	if !ok {
		return req, false
	}
	req.BestEffort = req.BestEffort || bestEffort
	return req, true
}

// bestEffortParam reads the best_effort query flag, writing a 400 response
// when it is not a boolean.
func bestEffortParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	v := r.URL.Query().Get("best_effort")
	if v == "" {
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		jsonError(w, "best_effort must be a boolean", http.StatusBadRequest)
		return false, false
	}
	return b, true
}

func bodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		jsonError(w, fmt.Sprintf("source exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
}

// writeResult encodes the tree. A parse error still returns the partial tree,
// with status 422.
func (s *Server) writeResult(w http.ResponseWriter, format ast.Format, root *ast.Root, parseErr error) {
	resp := parseResponse{AST: root}
	status := http.StatusOK
	if parseErr != nil {
		resp.Error = parseErr.Error()
		status = http.StatusUnprocessableEntity
	}

	switch format {
	case ast.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(status)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			s.log.Error("encode yaml response", "error", err)
		}
		enc.Close()
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
