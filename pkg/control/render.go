package control

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
	"github.com/goliatone/go-formcontrol/pkg/render/template/gotemplate"
)

// FlashesTemplatePath renders the flash messages snippet.
const FlashesTemplatePath = "flashes.tpl"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

var (
	defaultRendererOnce sync.Once
	defaultRenderer     template.TemplateRenderer
	defaultRendererErr  error
)

// Templates exposes the embedded card templates so applications can layer
// their own overrides on top with gotemplate.WithFS.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("control: embedded templates: %v", err))
	}
	return sub
}

func sharedRenderer() (template.TemplateRenderer, error) {
	defaultRendererOnce.Do(func() {
		defaultRenderer, defaultRendererErr = gotemplate.New(gotemplate.WithFS(Templates()))
	})
	return defaultRenderer, defaultRendererErr
}

// TemplateRenderer returns the engine used by Render.
func (c *FormControl) TemplateRenderer() (template.TemplateRenderer, error) {
	if c.renderer != nil {
		return c.renderer, nil
	}
	return sharedRenderer()
}

// Render writes the control: flashes, card chrome and the form markup.
func (c *FormControl) Render(ctx context.Context, w io.Writer) error {
	renderer, err := c.TemplateRenderer()
	if err != nil {
		return fmt.Errorf("control: template renderer: %w", err)
	}
	view, err := c.View(ctx)
	if err != nil {
		return err
	}
	if _, err := renderer.RenderTemplate(c.templatePath, view, w); err != nil {
		return fmt.Errorf("control: render %q: %w", c.templatePath, err)
	}
	return nil
}

// View builds the template context used by Render.
func (c *FormControl) View(ctx context.Context) (map[string]any, error) {
	f, err := c.Form(ctx)
	if err != nil {
		return nil, err
	}
	html, err := f.HTML()
	if err != nil {
		return nil, fmt.Errorf("control: render form: %w", err)
	}
	themed, err := c.resolveTheme()
	if err != nil {
		return nil, err
	}

	styles := config.Styles{}
	for slot, class := range themed.Styles {
		styles[slot] = class
	}
	for slot, class := range c.Styles() {
		styles[slot] = class
	}

	return map[string]any{
		"name":        c.name,
		"simple":      c.simple,
		"ajax":        c.Ajax(),
		"icon_prefix": c.iconPrefix,
		"title":       template.Safe(sanitizeCaption(c.caption(c.title, c.config.Title))),
		"comment":     template.Safe(sanitizeCaption(c.caption(c.comment, c.config.Comment))),
		"footer":      template.Safe(sanitizeCaption(c.caption(c.footer, c.config.Footer))),
		"styles":      map[string]string(styles),
		"links":       c.linkViews(),
		"form":        template.Safe(html),
		"flashes":     c.flashViews(),
		"snippets": map[string]string{
			SnippetForm:    c.SnippetID(SnippetForm),
			SnippetFlashes: c.SnippetID(SnippetFlashes),
		},
		"theme": map[string]any{
			"name":     themed.Name,
			"variant":  themed.Variant,
			"tokens":   themed.Tokens,
			"css_vars": themed.CSSVars,
		},
	}, nil
}

// SnippetID returns the element id of a partial reload region.
func (c *FormControl) SnippetID(snippet string) string {
	return "snippet-" + c.name + "-" + snippet
}

// SnippetPayload renders every invalidated snippet keyed by its element id,
// the shape ajax clients expect for partial reloads.
func (c *FormControl) SnippetPayload(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(c.invalidated))
	for _, snippet := range c.invalidated {
		switch snippet {
		case SnippetForm:
			f, err := c.Form(ctx)
			if err != nil {
				return nil, err
			}
			html, err := f.HTML()
			if err != nil {
				return nil, fmt.Errorf("control: render form: %w", err)
			}
			out[c.SnippetID(snippet)] = html
		case SnippetFlashes:
			renderer, err := c.TemplateRenderer()
			if err != nil {
				return nil, fmt.Errorf("control: template renderer: %w", err)
			}
			html, err := renderer.RenderTemplate(FlashesTemplatePath, map[string]any{"flashes": c.flashViews()})
			if err != nil {
				return nil, fmt.Errorf("control: render flashes: %w", err)
			}
			out[c.SnippetID(snippet)] = html
		}
	}
	return out, nil
}

// caption prefers an override, which is translated when set, over the
// configured text, which is translated here.
func (c *FormControl) caption(override, configured string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return c.translate(configured)
}

func (c *FormControl) linkViews() []map[string]any {
	links := c.Links()
	out := make([]map[string]any, 0, len(links))
	for _, link := range links {
		icon := ""
		if link.Icon != "" {
			icon = c.iconPrefix + link.Icon
		}
		out = append(out, map[string]any{
			"name":  c.translate(link.Name),
			"href":  link.Href,
			"icon":  icon,
			"class": link.Class,
			"title": c.translate(link.Title),
		})
	}
	return out
}

func (c *FormControl) flashViews() []map[string]any {
	out := make([]map[string]any, 0, len(c.flashes))
	for _, flash := range c.flashes {
		out = append(out, map[string]any{"message": flash.Message, "kind": flash.Kind})
	}
	return out
}
