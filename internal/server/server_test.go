package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/session"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) (*Server, *session.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	s, err := New(pipeline.NewRunner(nil, nil, logger), store, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	return s, store
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, s *Server) sessionView {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", createRequest{
		Packshot:   asset.EncodeDataURL("image/png", solidPNG(t, 40, 40, color.NRGBA{R: 200, G: 30, B: 30, A: 255})),
		Logo:       asset.EncodeDataURL("", solidPNG(t, 20, 8, color.Black)),
		Headline:   "Summer sale",
		CTA:        "Shop now",
		BrandColor: "#0EA5E9",
		Ratios:     []string{"1:1", "1.91:1"},
		Templates:  map[string]string{"1:1": "clean-minimal", "1.91:1": "premium-soft"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	return decode[sessionView](t, rec)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decode[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestPalette(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/palette?color=%233B82F6", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	p := decode[map[string]string](t, rec)
	if p["primary"] != "#3B82F6" {
		t.Errorf("primary = %q, want %q", p["primary"], "#3B82F6")
	}

	rec = do(t, s, http.MethodGet, "/api/palette?color=blue", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid colour status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if body := decode[errorBody](t, rec); body.Code != errors.ErrCodeInvalidColor {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeInvalidColor)
	}
}

func TestCreateSession(t *testing.T) {
	s, store := newTestServer(t)
	v := createSession(t, s)

	if v.ID == "" {
		t.Fatal("session ID is empty")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
	if len(v.Creatives) != 2 {
		t.Fatalf("creatives = %d, want 2", len(v.Creatives))
	}
	if v.Creatives[1].Template != "premium-soft" {
		t.Errorf("template = %q, want %q", v.Creatives[1].Template, "premium-soft")
	}
	if v.Palette.Primary != "#0EA5E9" {
		t.Errorf("primary = %q, want %q", v.Palette.Primary, "#0EA5E9")
	}

	rec := do(t, s, http.MethodGet, v.Creatives[0].Preview, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want %q", ct, "image/png")
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1080 || b.Dy() != 1080 {
		t.Errorf("preview size = %dx%d, want 1080x1080", b.Dx(), b.Dy())
	}
}

func TestCreateSessionErrors(t *testing.T) {
	s, _ := newTestServer(t)
	logo := asset.EncodeDataURL("", solidPNG(t, 4, 4, color.Black))

	tests := []struct {
		name   string
		req    createRequest
		status int
		code   errors.Code
	}{
		{
			name:   "missing packshot",
			req:    createRequest{Logo: logo, Headline: "Hi"},
			status: http.StatusUnprocessableEntity,
			code:   errors.ErrCodeAssetMissing,
		},
		{
			name:   "undecodable packshot",
			req:    createRequest{Packshot: "data:image/png;base64,bm90IGFuIGltYWdl", Logo: logo},
			status: http.StatusUnprocessableEntity,
			code:   errors.ErrCodeImageDecode,
		},
		{
			name:   "not base64",
			req:    createRequest{Packshot: "/etc/passwd", Logo: logo},
			status: http.StatusUnprocessableEntity,
			code:   errors.ErrCodeImageDecode,
		},
		{
			name:   "unknown ratio",
			req:    createRequest{Packshot: logo, Logo: logo, Ratios: []string{"4:3"}},
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidTemplateOrRatio,
		},
		{
			name:   "headline too long",
			req:    createRequest{Packshot: logo, Logo: logo, Headline: strings.Repeat("x", 61)},
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/sessions", tt.req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if body := decode[errorBody](t, rec); body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"packshot":"","colour":"red"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/sessions/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if body := decode[errorBody](t, rec); body.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeSessionNotFound)
	}
}

func TestPointerDrag(t *testing.T) {
	s, store := newTestServer(t)
	v := createSession(t, s)
	base := "/api/sessions/" + v.ID + "/creatives/0"
	start := v.Creatives[0].Layout.Packshot

	events := []pointerRequest{
		{Type: "down", X: start.X, Y: start.Y, Scale: 1},
		{Type: "move", X: start.X - 40, Y: start.Y + 25, Scale: 1},
		{Type: "up", X: start.X - 40, Y: start.Y + 25, Scale: 1},
	}
	var last layoutView
	for _, ev := range events {
		rec := do(t, s, http.MethodPost, base+"/pointer", ev)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want %d: %s", ev.Type, rec.Code, http.StatusOK, rec.Body.String())
		}
		last = decode[layoutView](t, rec)
		if ev.Type == "move" && !last.Changed {
			t.Error("move changed = false, want true")
		}
	}

	got := last.Layout.Packshot
	if got.X != start.X-40 || got.Y != start.Y+25 {
		t.Errorf("packshot center = (%v, %v), want (%v, %v)", got.X, got.Y, start.X-40, start.Y+25)
	}
	if got.Width != start.Width || got.Height != start.Height {
		t.Errorf("packshot size changed on drag: %vx%v", got.Width, got.Height)
	}

	e, err := store.Get(t.Context(), v.ID)
	if err != nil {
		t.Fatal(err)
	}
	e.Wait()
	slot, _ := e.Slot(0)
	if slot.Stale() {
		t.Error("slot is stale after background render")
	}
	if slot.Layout().Packshot != got {
		t.Errorf("stored packshot = %+v, want %+v", slot.Layout().Packshot, got)
	}
}

func TestPointerErrors(t *testing.T) {
	s, _ := newTestServer(t)
	v := createSession(t, s)
	base := "/api/sessions/" + v.ID + "/creatives/"

	tests := []struct {
		name   string
		path   string
		req    pointerRequest
		status int
	}{
		{"bad type", base + "0/pointer", pointerRequest{Type: "click"}, http.StatusBadRequest},
		{"index out of range", base + "9/pointer", pointerRequest{Type: "down"}, http.StatusNotFound},
		{"index not a number", base + "x/pointer", pointerRequest{Type: "down"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestApplyTemplate(t *testing.T) {
	s, _ := newTestServer(t)
	v := createSession(t, s)
	path := "/api/sessions/" + v.ID + "/creatives/1/template"

	rec := do(t, s, http.MethodPost, path, templateRequest{Template: "bold-dynamic", BrandColor: "#E11D48"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	lv := decode[layoutView](t, rec)
	if lv.Layout.Template != "bold-dynamic" {
		t.Errorf("template = %q, want %q", lv.Layout.Template, "bold-dynamic")
	}

	got := decode[sessionView](t, do(t, s, http.MethodGet, "/api/sessions/"+v.ID, nil))
	if got.Selected != 1 {
		t.Errorf("selected = %d, want 1", got.Selected)
	}
	if got.Palette.Primary != "#E11D48" {
		t.Errorf("primary = %q, want %q", got.Palette.Primary, "#E11D48")
	}
	if got.Palette.Secondary != v.Palette.Secondary {
		t.Errorf("secondary = %q, want %q (unchanged)", got.Palette.Secondary, v.Palette.Secondary)
	}

	rec = do(t, s, http.MethodPost, path, templateRequest{Template: "neon"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown template status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSetText(t *testing.T) {
	s, _ := newTestServer(t)
	v := createSession(t, s)
	path := "/api/sessions/" + v.ID + "/text"

	headline := "Winter sale"
	rec := do(t, s, http.MethodPut, path, textRequest{Headline: &headline})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decode[sessionView](t, rec)
	if got.Headline != headline {
		t.Errorf("headline = %q, want %q", got.Headline, headline)
	}
	if got.CTA != "Shop now" {
		t.Errorf("cta = %q, want %q (unchanged)", got.CTA, "Shop now")
	}

	long := strings.Repeat("x", 21)
	rec = do(t, s, http.MethodPut, path, textRequest{CTA: &long})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("long cta status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t)
	v := createSession(t, s)
	path := "/api/sessions/" + v.ID + "/export"

	rec := do(t, s, http.MethodPost, path+"?kb=200", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	out := decode[[]exportView](t, rec)
	if len(out) != 2 {
		t.Fatalf("exports = %d, want 2", len(out))
	}
	for _, x := range out {
		if x.Error != "" {
			t.Errorf("%s: %s", x.Ratio, x.Error)
			continue
		}
		if !strings.HasPrefix(x.DataURL, "data:image/jpeg;base64,") {
			t.Errorf("%s data URL prefix = %.30q", x.Ratio, x.DataURL)
		}
		if !strings.HasSuffix(x.FileName, ".jpg") {
			t.Errorf("%s file name = %q, want .jpg suffix", x.Ratio, x.FileName)
		}
	}

	for _, kb := range []string{"0", "abc"} {
		rec := do(t, s, http.MethodPost, path+"?kb="+kb, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("kb=%s status = %d, want %d", kb, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestDeleteSession(t *testing.T) {
	s, store := newTestServer(t)
	v := createSession(t, s)

	rec := do(t, s, http.MethodDelete, "/api/sessions/"+v.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", store.Len())
	}
	rec = do(t, s, http.MethodGet, "/api/sessions/"+v.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidTemplateOrRatio, http.StatusBadRequest},
		{errors.ErrCodeInvalidColor, http.StatusBadRequest},
		{errors.ErrCodeAssetMissing, http.StatusUnprocessableEntity},
		{errors.ErrCodeImageDecode, http.StatusUnprocessableEntity},
		{errors.ErrCodeSessionNotFound, http.StatusNotFound},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeRenderFailed, http.StatusInternalServerError},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := statusFor(errors.New(tt.code, "x")); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
