package render

import (
	"html/template"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

// Templates resolves names to templates defined in an html/template set.
type Templates struct {
	Set *template.Template
	// Suffix is appended to view names before lookup, e.g. ".html".
	Suffix string
}

// ResolveView implements ViewResolver.
func (t Templates) ResolveView(r *http.Request, name string) (handler.View, error) {
	if t.Set == nil {
		return nil, nil
	}
	full := name + t.Suffix
	if t.Set.Lookup(full) == nil {
		return nil, nil
	}
	return handler.ViewFunc(func(w http.ResponseWriter, r *http.Request, model map[string]any) error {
		return response.TemplateName(t.Set, full, model, http.StatusOK)(w, r)
	}), nil
}

// Components resolves names to templ component constructors.
type Components map[string]func(model map[string]any) templ.Component

// ResolveView implements ViewResolver.
func (c Components) ResolveView(r *http.Request, name string) (handler.View, error) {
	build, ok := c[name]
	if !ok || build == nil {
		return nil, nil
	}
	return handler.ViewFunc(func(w http.ResponseWriter, r *http.Request, model map[string]any) error {
		return TemplView(build(model)).Render(w, r, model)
	}), nil
}

// TemplView renders a prepared templ component, ignoring the model.
func TemplView(c templ.Component) handler.View {
	return handler.ViewFunc(func(w http.ResponseWriter, r *http.Request, model map[string]any) error {
		resp := response.Templ(c)
		if resp == nil {
			return ErrViewNotFound
		}
		return resp(w, r)
	})
}

// JSON resolves every name to JSONView. Place it last in a chain.
type JSON struct{}

// ResolveView implements ViewResolver.
func (JSON) ResolveView(r *http.Request, name string) (handler.View, error) {
	return JSONView{}, nil
}

// JSONView writes the model as a JSON object.
type JSONView struct{}

// Render implements handler.View.
func (JSONView) Render(w http.ResponseWriter, r *http.Request, model map[string]any) error {
	if model == nil {
		model = map[string]any{}
	}
	return response.JSON(model)(w, r)
}
