package handler

import "net/http"

// View renders a model to the response.
type View interface {
	Render(w http.ResponseWriter, r *http.Request, model map[string]any) error
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(w http.ResponseWriter, r *http.Request, model map[string]any) error

// Render implements View.
func (f ViewFunc) Render(w http.ResponseWriter, r *http.Request, model map[string]any) error {
	return f(w, r, model)
}

// Outcome is the result of a handler invocation: a view (by name or instance)
// plus the attributes it renders. Status overrides the response status when set.
type Outcome struct {
	ViewName string
	View     View
	Model    map[string]any
	Status   int
}

// NewOutcome creates an outcome rendering the named view with the given model.
func NewOutcome(viewName string, model map[string]any) *Outcome {
	return &Outcome{ViewName: viewName, Model: model}
}

// Handled returns an empty outcome: the failure or request was fully handled
// and nothing is left to render.
func Handled() *Outcome {
	return &Outcome{}
}

// Set stores a model attribute and returns the outcome for chaining.
func (o *Outcome) Set(key string, val any) *Outcome {
	if o.Model == nil {
		o.Model = make(map[string]any)
	}
	o.Model[key] = val
	return o
}

// HasView reports whether a view name or instance is set.
func (o *Outcome) HasView() bool {
	return o != nil && (o.View != nil || o.ViewName != "")
}

// IsEmpty reports whether the outcome carries nothing to render.
func (o *Outcome) IsEmpty() bool {
	return o == nil || (!o.HasView() && len(o.Model) == 0 && o.Status == 0)
}
