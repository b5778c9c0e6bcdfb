package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcviz/pkg/buildinfo"
	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/painter"
	"github.com/matzehuels/mcviz/pkg/pipeline"
)

// ContentTypeDOT marks request bodies holding a DOT description.
const ContentTypeDOT = "text/vnd.graphviz"

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type glyphResponse struct {
	PDGID int      `json:"pdgid"`
	Names []string `json:"names"`
	DefID string   `json:"def_id"`
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleGlyphs(w http.ResponseWriter, r *http.Request) {
	gs := glyph.Default().Glyphs()
	out := make([]glyphResponse, len(gs))
	for i, g := range gs {
		out[i] = glyphResponse{PDGID: g.PDGID, Names: g.Names, DefID: g.DefID}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.LayoutJSON(r.Context(), string(body), s.requestOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus(hit))
	_, _ = w.Write(data)
}

func (s *Server) handlePaint(w http.ResponseWriter, r *http.Request) {
	opts := s.requestOptions(r)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in := pipeline.Input{DOT: string(body)}
	if !isDOT(r) {
		l, err := layout.ReadJSON(bytes.NewReader(body))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		in = pipeline.Input{Layout: l}
	}

	res, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", painter.ContentType(opts.Format))
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.PaintHit))
	_, _ = w.Write(res.Artifact)
}

// requestOptions applies the query parameters to the server defaults.
func (s *Server) requestOptions(r *http.Request) pipeline.Options {
	opts := s.opts.Pipeline
	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		opts.Format = f
	}
	if e := q.Get("engine"); e != "" {
		opts.Engine = e
	}
	opts.Logger = log.FromContext(r.Context())
	return opts
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return body, nil
}

func isDOT(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == ContentTypeDOT
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
		resp.Error = "internal error"
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsInput(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeLayoutFailed):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
