package httpcontrol_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcontrol/pkg/cache"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/control"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/httpcontrol"
)

type contactForm struct {
	Name  string `form:"name,required"`
	Email string `form:"email" type:"email"`
}

func newRouter(t *testing.T, submitted *[]form.Values, options ...httpcontrol.Option) http.Handler {
	t.Helper()
	caches := cache.NewMemoryFactory()
	factory := func(*http.Request) (*control.FormControl, error) {
		ctrl := control.New(form.NewFactory(), nil, caches,
			control.WithName("contact"),
			control.WithConfigurator(config.Static{Title: "Contact"}),
			control.WithObject(&contactForm{}),
		)
		ctrl.SetValuesLoader(func(_ context.Context, id any) (form.Values, error) {
			if id == "1" {
				return form.Values{"name": "Ada", "email": "ada@example.com"}, nil
			}
			return nil, nil
		})
		ctrl.OnSuccess = []form.Handler{func(_ context.Context, f *form.Form) error {
			*submitted = append(*submitted, f.Values())
			return nil
		}}
		return ctrl, nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := append([]httpcontrol.Option{httpcontrol.WithLogger(logger)}, options...)

	r := chi.NewRouter()
	r.Mount("/contact", httpcontrol.New(factory, opts...).Routes())
	return r
}

func TestHandler_ShowsEmptyForm(t *testing.T) {
	var submitted []form.Values
	router := newRouter(t, &submitted)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Contact") || !strings.Contains(body, `name="email"`) {
		t.Fatalf("unexpected body\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestHandler_LoadsRecordValues(t *testing.T) {
	var submitted []form.Values
	router := newRouter(t, &submitted)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="ada@example.com"`) {
		t.Fatalf("expected loaded value in body\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact/404", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty values, got %d", rec.Code)
	}
}

func TestHandler_SubmitFormEncoded(t *testing.T) {
	var submitted []form.Values
	router := newRouter(t, &submitted, httpcontrol.WithSuccessRedirect("/thanks"))

	body := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/thanks" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	want := []form.Values{{"name": "Ada", "email": "ada@example.com"}}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_InvalidSubmitRerenders(t *testing.T) {
	var submitted []form.Values
	router := newRouter(t, &submitted)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("email=nope"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "This field is required.") {
		t.Fatalf("expected validation message\n%s", rec.Body.String())
	}
	if len(submitted) != 0 {
		t.Fatalf("expected no success handler call, got %v", submitted)
	}
}

func TestHandler_AjaxSubmitReturnsSnippets(t *testing.T) {
	var submitted []form.Values
	router := newRouter(t, &submitted)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp httpcontrol.SnippetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid {
		t.Fatal("expected invalid response")
	}
	if diff := cmp.Diff([]string{"This field is required."}, resp.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if html := resp.Snippets["snippet-contact-form"]; !strings.HasPrefix(html, "<form") {
		t.Fatalf("expected form snippet, got %q", html)
	}
}

func TestHandler_BadJSON(t *testing.T) {
	var submitted []form.Values
	router := newRouter(t, &submitted)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
