// Package httpcontrol exposes form controls over HTTP with chi. Each request
// gets its own control from a ControlFactory.
package httpcontrol

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formcontrol/pkg/control"
	"github.com/goliatone/go-formcontrol/pkg/form"
)

// ControlFactory builds the control serving r.
type ControlFactory func(r *http.Request) (*control.FormControl, error)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithIDParam renames the chi URL parameter carrying the record id.
func WithIDParam(name string) Option {
	return func(h *Handler) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			h.idParam = trimmed
		}
	}
}

// WithSuccessRedirect redirects non-ajax clients after a valid submission.
func WithSuccessRedirect(url string) Option {
	return func(h *Handler) {
		h.redirect = strings.TrimSpace(url)
	}
}

// Handler renders and processes one kind of form control.
type Handler struct {
	factory  ControlFactory
	logger   *slog.Logger
	idParam  string
	redirect string
}

// SnippetResponse is returned to ajax clients after a submission.
type SnippetResponse struct {
	Valid    bool              `json:"valid"`
	Errors   []string          `json:"errors,omitempty"`
	Snippets map[string]string `json:"snippets"`
	Redirect string            `json:"redirect,omitempty"`
}

// New creates a Handler.
func New(factory ControlFactory, options ...Option) *Handler {
	h := &Handler{
		factory: factory,
		logger:  slog.Default(),
		idParam: "id",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Routes returns a router serving:
//
//	GET  /      empty form
//	GET  /{id}  form with the record's values as defaults
//	POST /      submission
//	POST /{id}  submission against an existing record
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Mount(r)
	return r
}

// Mount registers the routes on r.
func (h *Handler) Mount(r chi.Router) {
	pattern := "/{" + h.idParam + "}"
	r.Get("/", h.show)
	r.Get(pattern, h.show)
	r.Post("/", h.submit)
	r.Post(pattern, h.submit)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.control(w, r)
	if !ok {
		return
	}
	if id := chi.URLParam(r, h.idParam); id != "" {
		if err := ctrl.LoadValues(r.Context(), id); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.render(w, r, ctrl, http.StatusOK)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.control(w, r)
	if !ok {
		return
	}
	if id := chi.URLParam(r, h.idParam); id != "" {
		if err := ctrl.LoadValues(r.Context(), id); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	values, err := decodeValues(r)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", errBadPayload, err))
		return
	}
	if err := ctrl.Submit(r.Context(), values); err != nil {
		h.fail(w, r, err)
		return
	}

	f, err := ctrl.Form(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	valid := f.IsValid()
	h.logger.Info("form submission",
		slog.String("control", ctrl.Name()),
		slog.String("path", r.URL.Path),
		slog.Bool("valid", valid),
	)

	if isAjax(r) {
		ctrl.Reload()
		snippets, err := ctrl.SnippetPayload(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp := SnippetResponse{Valid: valid, Errors: f.Errors(), Snippets: snippets}
		if valid {
			resp.Redirect = h.redirect
		}
		writeJSON(w, statusFor(valid), resp)
		return
	}

	if valid && h.redirect != "" {
		http.Redirect(w, r, h.redirect, http.StatusSeeOther)
		return
	}
	h.render(w, r, ctrl, statusFor(valid))
}

func (h *Handler) control(w http.ResponseWriter, r *http.Request) (*control.FormControl, bool) {
	if h.factory == nil {
		h.fail(w, r, errors.New("httpcontrol: control factory is nil"))
		return nil, false
	}
	ctrl, err := h.factory(r)
	if err != nil {
		h.fail(w, r, fmt.Errorf("httpcontrol: create control: %w", err))
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, ctrl *control.FormControl, status int) {
	var b strings.Builder
	if err := ctrl.Render(r.Context(), &b); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(b.String()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	h.logger.Error("form request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(status), status)
}

var errBadPayload = errors.New("httpcontrol: invalid payload")

func errorStatus(err error) int {
	switch {
	case errors.Is(err, control.ErrEmptyValues), errors.Is(err, errBadPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusFor(valid bool) int {
	if valid {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

func isAjax(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// decodeValues reads a JSON object or an url-encoded/multipart body. Repeated
// keys keep every value.
func decodeValues(r *http.Request) (form.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		values := form.Values{}
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			return nil, err
		}
		return values, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	values := make(form.Values, len(r.PostForm))
	for key, list := range r.PostForm {
		switch len(list) {
		case 0:
		case 1:
			values[key] = list[0]
		default:
			values[key] = append([]string(nil), list...)
		}
	}
	return values, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
