package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/buildinfo"
	"github.com/matzehuels/adforge/pkg/canvas"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/session"
)

// =============================================================================
// Requests and Views
// =============================================================================

// createRequest starts a session. Images are data URLs or bare base64.
type createRequest struct {
	Packshot    string              `json:"packshot"`
	Logo        string              `json:"logo"`
	Headline    string              `json:"headline"`
	CTA         string              `json:"cta"`
	BrandColor  string              `json:"brand_color,omitempty"`
	Ratios      []string            `json:"ratios,omitempty"`
	Templates   map[string]string   `json:"templates,omitempty"`
	Seed        uint64              `json:"seed,omitempty"`
	Decorations []decorationRequest `json:"decorations,omitempty"`
	QR          string              `json:"qr,omitempty"`
}

type decorationRequest struct {
	Type    string `json:"type"`
	Image   string `json:"image,omitempty"`
	Content string `json:"content,omitempty"`
	Color   string `json:"color,omitempty"`
}

type pointerRequest struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift"`
	Scale float64 `json:"scale"`
}

type templateRequest struct {
	Template   string `json:"template"`
	BrandColor string `json:"brand_color,omitempty"`
}

// textRequest changes the copy; absent fields are left alone.
type textRequest struct {
	Headline *string `json:"headline"`
	CTA      *string `json:"cta"`
}

type sessionView struct {
	ID        string          `json:"id"`
	Created   time.Time       `json:"created"`
	Selected  int             `json:"selected"`
	Headline  string          `json:"headline"`
	CTA       string          `json:"cta"`
	Palette   palette.Palette `json:"palette"`
	Creatives []creativeView  `json:"creatives"`
}

type creativeView struct {
	Index    int               `json:"index"`
	Ratio    creative.Ratio    `json:"ratio"`
	Template creative.Template `json:"template"`
	Version  uint64            `json:"version"`
	Stale    bool              `json:"stale"`
	Preview  string            `json:"preview"`
	Error    string            `json:"error,omitempty"`
	Layout   creative.Layout   `json:"layout"`
}

type layoutView struct {
	Layout  creative.Layout `json:"layout"`
	Version uint64          `json:"version"`
	Changed bool            `json:"changed"`
}

type exportView struct {
	Ratio    creative.Ratio `json:"ratio"`
	FileName string         `json:"file_name,omitempty"`
	Bytes    int            `json:"bytes,omitempty"`
	DataURL  string         `json:"data_url,omitempty"`
	Code     errors.Code    `json:"code,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// =============================================================================
// Stateless Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	p, err := palette.FromHex(r.URL.Query().Get("color"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// =============================================================================
// Session Handlers
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg, err := req.config()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := cfg.Options(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.RenderConfig = s.cfg
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := session.NewEditor(s.runner, res,
		session.WithLogger(s.logger),
		session.WithRenderConfig(s.cfg))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), e); err != nil {
		e.Close()
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("session created", "session", e.ID(), "creatives", e.Len(), "brand_color", res.BrandColor)
	writeJSON(w, http.StatusCreated, viewSession(e))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewSession(e))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)
	if !ok {
		return
	}
	var req textRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Headline != nil {
		if err := e.SetHeadline(*req.Headline); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.CTA != nil {
		if err := e.SetCTA(*req.CTA); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, viewSession(e))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)
	if !ok {
		return
	}
	targetKB := pipeline.DefaultTargetKB
	if kb := r.URL.Query().Get("kb"); kb != "" {
		n, err := strconv.Atoi(kb)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "kb must be an integer"))
			return
		}
		targetKB = n
	}
	if err := errors.ValidateTargetSize(targetKB); err != nil {
		s.writeError(w, r, err)
		return
	}

	exported := e.Export(r.Context(), pipeline.ExportOptions{TargetKB: targetKB, Pacing: s.pacing})
	out := make([]exportView, len(exported))
	for i, x := range exported {
		v := exportView{Ratio: x.Ratio}
		if x.Err != nil {
			v.Code = errors.GetCode(x.Err)
			v.Error = errors.UserMessage(x.Err)
		} else {
			v.FileName = x.FileName
			v.Bytes = len(x.Data)
			v.DataURL = asset.EncodeDataURL("", x.Data)
		}
		out[i] = v
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Creative Handlers
// =============================================================================

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)
	if !ok {
		return
	}
	slot, ok := s.slot(w, r, e)
	if !ok {
		return
	}
	data := slot.Preview()
	if data == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no preview rendered yet"))
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Creative-Version", strconv.FormatUint(slot.Version(), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)
	if !ok {
		return
	}
	i, ok := s.index(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := session.ParsePointerType(req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, changed, err := e.Pointer(i, t, canvas.Event{X: req.X, Y: req.Y, Shift: req.Shift}, req.Scale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	slot, _ := e.Slot(i)
	writeJSON(w, http.StatusOK, layoutView{Layout: l, Version: slot.Version(), Changed: changed})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)
	if !ok {
		return
	}
	i, ok := s.index(w, r)
	if !ok {
		return
	}
	var req templateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	family, err := creative.ParseTemplate(req.Template)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := e.Select(i); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := e.ApplyTemplate(r.Context(), family, req.BrandColor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	slot, _ := e.Slot(i)
	writeJSON(w, http.StatusOK, layoutView{Layout: l, Version: slot.Version(), Changed: true})
}

// =============================================================================
// Helpers
// =============================================================================

// editor loads the session named in the URL, writing the error response
// when it does not exist.
func (s *Server) editor(w http.ResponseWriter, r *http.Request) (*session.Editor, bool) {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return e, true
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "creative index must be an integer"))
		return 0, false
	}
	return i, true
}

func (s *Server) slot(w http.ResponseWriter, r *http.Request, e *session.Editor) (*session.Slot, bool) {
	i, ok := s.index(w, r)
	if !ok {
		return nil, false
	}
	slot, err := e.Slot(i)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return slot, true
}

func viewSession(e *session.Editor) sessionView {
	headline, cta := e.Text()
	v := sessionView{
		ID:       e.ID(),
		Created:  e.Created(),
		Selected: e.Selected(),
		Headline: headline,
		CTA:      cta,
		Palette:  e.Palette(),
	}
	for i := 0; i < e.Len(); i++ {
		slot, _ := e.Slot(i)
		l := slot.Layout()
		cv := creativeView{
			Index:    i,
			Ratio:    l.Ratio,
			Template: l.Template,
			Version:  slot.Version(),
			Stale:    slot.Stale(),
			Preview:  fmt.Sprintf("/api/sessions/%s/creatives/%d.png", e.ID(), i),
			Layout:   l,
		}
		if err := slot.Err(); err != nil {
			cv.Error = errors.UserMessage(err)
		}
		v.Creatives = append(v.Creatives, cv)
	}
	return v
}

// config converts the request into a batch config. Only inline images are
// accepted; paths and URLs would let clients read server files or reach
// internal hosts.
func (req createRequest) config() (pipeline.Config, error) {
	cfg := pipeline.Config{
		Headline:   req.Headline,
		CTA:        req.CTA,
		BrandColor: req.BrandColor,
		Ratios:     req.Ratios,
		Templates:  req.Templates,
		Seed:       req.Seed,
		QR:         req.QR,
	}
	var err error
	if cfg.Packshot, err = inlineImage("packshot", req.Packshot); err != nil {
		return pipeline.Config{}, err
	}
	if cfg.Logo, err = inlineImage("logo", req.Logo); err != nil {
		return pipeline.Config{}, err
	}
	for i, d := range req.Decorations {
		dc := pipeline.DecorationConfig{Type: d.Type, Content: d.Content, Color: d.Color}
		if d.Type == string(creative.DecorationImage) {
			if dc.Src, err = inlineImage(fmt.Sprintf("decorations[%d]", i), d.Image); err != nil {
				return pipeline.Config{}, err
			}
		}
		cfg.Decorations = append(cfg.Decorations, dc)
	}
	return cfg, nil
}

// inlineImage normalizes a data URL or bare base64 payload to a data URL.
// Empty input stays empty so that missing assets are reported as such.
func inlineImage(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", nil
	case strings.HasPrefix(s, "data:"):
		return s, nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeImageDecode, err, "%s: expected a data URL or base64 image", field)
	}
	return asset.EncodeDataURL("", data), nil
}
