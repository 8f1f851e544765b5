package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	formcontrol "github.com/goliatone/go-formcontrol"
	"github.com/goliatone/go-formcontrol/pkg/builder"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/control"
	"github.com/goliatone/go-formcontrol/pkg/events"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
)

// appOptions carries the persistent flags shared by every subcommand.
type appOptions struct {
	configDir string
	name      string
	source    string
	operation string
	catalog   string
	locale    string
	defaults  string
	logLevel  string
	simple    bool
}

func (o *appOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configDir, "config", "c", "", "directory of YAML/JSON control configurations")
	flags.StringVarP(&o.name, "name", "n", control.DefaultName, "control name used for the configuration lookup")
	flags.StringVar(&o.source, "source", "", "OpenAPI document path or URL")
	flags.StringVarP(&o.operation, "operation", "o", "", "operation ID to build the form from")
	flags.StringVar(&o.catalog, "catalog", "", "YAML translation catalog (locale -> key -> text)")
	flags.StringVar(&o.locale, "locale", "", "locale used for translations")
	flags.StringVar(&o.defaults, "defaults", "", "YAML/JSON file with default field values")
	flags.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&o.simple, "simple", false, "render the form without the card chrome")
}

func (o *appOptions) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (o *appOptions) store() (*config.Store, error) {
	if strings.TrimSpace(o.configDir) == "" {
		return config.NewStore(nil), nil
	}
	return config.LoadFS(os.DirFS(o.configDir))
}

func (o *appOptions) translator() (i18n.Translator, error) {
	if strings.TrimSpace(o.catalog) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(o.catalog)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var catalog i18n.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", o.catalog, err)
	}
	return catalog, nil
}

// runtime builds the shared collaborators. The dispatcher may be nil, in
// which case the runtime creates one.
func (o *appOptions) runtime(logger *slog.Logger, dispatcher *events.Dispatcher) (*formcontrol.Runtime, *config.Store, error) {
	store, err := o.store()
	if err != nil {
		return nil, nil, err
	}
	translator, err := o.translator()
	if err != nil {
		return nil, nil, err
	}
	rt := formcontrol.New(
		formcontrol.WithLogger(logger),
		formcontrol.WithConfigurator(store),
		formcontrol.WithTranslator(translator, o.locale),
		formcontrol.WithDispatcher(dispatcher),
	)
	return rt, store, nil
}

// document validates the source flags and reads the OpenAPI document.
func (o *appOptions) document(ctx context.Context) ([]byte, error) {
	if strings.TrimSpace(o.source) == "" {
		return nil, errors.New("an OpenAPI document is required (--source)")
	}
	if strings.TrimSpace(o.operation) == "" {
		return nil, errors.New("an operation ID is required (--operation)")
	}
	return readSource(ctx, o.source)
}

// control reads the document and creates the control described by the flags.
func (o *appOptions) control(ctx context.Context, rt *formcontrol.Runtime) (*control.FormControl, error) {
	document, err := o.document(ctx)
	if err != nil {
		return nil, err
	}
	return o.newControl(ctx, rt, document)
}

// newControl builds a control over an already loaded document and applies the
// --defaults file.
func (o *appOptions) newControl(ctx context.Context, rt *formcontrol.Runtime, document []byte) (*control.FormControl, error) {
	ctrl := rt.Control(o.name, control.WithBuilder(builder.NewOpenAPIBuilder(document, o.operation)))
	ctrl.SetSimple(o.simple)

	if strings.TrimSpace(o.defaults) != "" {
		values, err := readValues(o.defaults)
		if err != nil {
			return nil, err
		}
		if err := ctrl.SetDefaults(ctx, values); err != nil {
			return nil, err
		}
	}
	return ctrl, nil
}

func readSource(ctx context.Context, raw string) ([]byte, error) {
	path := strings.TrimSpace(raw)
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source: %s returned %s", path, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	return data, nil
}

// readValues parses a YAML or JSON mapping; YAML is a superset so one
// decoder covers both.
func readValues(path string) (form.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}
	var values form.Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse defaults %s: %w", path, err)
	}
	return values, nil
}
