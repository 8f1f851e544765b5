package formcontrol_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"

	formcontrol "github.com/goliatone/go-formcontrol"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/control"
	"github.com/goliatone/go-formcontrol/pkg/events"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

type signup struct {
	Email string `form:"email,required" type:"email"`
}

func TestRuntime_ControlSharesCollaborators(t *testing.T) {
	ctx := context.Background()
	store := config.NewStore(map[string]config.Config{
		"signup": {Title: "signup.title", OnSuccess: "signup.done"},
	})
	catalog := i18n.Catalog{"en": {"signup.title": "Join us"}}
	rt := formcontrol.New(
		formcontrol.WithConfigurator(store),
		formcontrol.WithTranslator(catalog, "en"),
	)

	var received []string
	if err := rt.Subscribe("signup.done", func(_ context.Context, event any) error {
		ev := event.(*events.FormEvent)
		received = append(received, ev.Values()["email"].(string))
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ctrl := rt.Control("signup", control.WithObject(&signup{}))
	if ctrl.Name() != "signup" {
		t.Fatalf("unexpected name %q", ctrl.Name())
	}
	if ctrl.Dispatcher() != control.Dispatcher(rt.Dispatcher()) {
		t.Fatal("expected the shared dispatcher")
	}
	if ctrl.Config().Title != "signup.title" {
		t.Fatalf("unexpected config %#v", ctrl.Config())
	}

	if err := ctrl.Submit(ctx, form.Values{"email": "ada@example.com"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]string{"ada@example.com"}, received); diff != "" {
		t.Fatalf("listener mismatch (-want +got):\n%s", diff)
	}

	view, err := ctrl.View(ctx)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got := view["title"]; got != template.Safe("Join us") {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestRuntime_ControlOptionsOrder(t *testing.T) {
	rt := formcontrol.New(formcontrol.WithControlOptions(control.WithName("shared")))

	if got := rt.Control("first").Name(); got != "shared" {
		t.Fatalf("expected runtime option to override the base name, got %q", got)
	}
	if got := rt.Control("first", control.WithName("own")).Name(); got != "own" {
		t.Fatalf("expected per-call option to win, got %q", got)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	for _, name := range []string{"form.tpl", "flashes.tpl"} {
		if _, err := fs.Stat(formcontrol.EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected embedded %s: %v", name, err)
		}
	}
}
