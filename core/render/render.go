package render

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Renderer commits an outcome to the response.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, o *handler.Outcome) error
}

// ViewResolver maps a view name to a view. A nil view with a nil error means the
// name is unknown to this resolver.
type ViewResolver interface {
	ResolveView(r *http.Request, name string) (handler.View, error)
}

// ViewResolverFunc adapts a function to ViewResolver.
type ViewResolverFunc func(r *http.Request, name string) (handler.View, error)

// ResolveView implements ViewResolver.
func (f ViewResolverFunc) ResolveView(r *http.Request, name string) (handler.View, error) {
	return f(r, name)
}

// Views renders outcomes through a chain of view resolvers.
type Views struct {
	Resolvers []ViewResolver
	// Fallback renders outcomes that carry a model but no view. Nil means
	// such outcomes fail with ErrViewNotFound.
	Fallback handler.View
}

// New returns Views backed by resolvers with a JSON fallback.
func New(resolvers ...ViewResolver) *Views {
	return &Views{Resolvers: resolvers, Fallback: JSONView{}}
}

// Resolve returns the view for name from the first resolver that knows it.
func (v *Views) Resolve(r *http.Request, name string) (handler.View, error) {
	for _, res := range v.Resolvers {
		view, err := res.ResolveView(r, name)
		if err != nil {
			return nil, fmt.Errorf("render: resolve %q: %w", name, err)
		}
		if view != nil {
			return view, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrViewNotFound, name)
}

// Render implements Renderer. Empty outcomes render nothing.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, o *handler.Outcome) error {
	if o.IsEmpty() {
		return nil
	}

	if !o.HasView() && len(o.Model) == 0 {
		w.WriteHeader(o.Status)
		return nil
	}

	view := o.View
	if view == nil {
		var err error
		switch {
		case o.ViewName != "":
			view, err = v.Resolve(r, o.ViewName)
		case v.Fallback != nil:
			view = v.Fallback
		default:
			err = ErrViewNotFound
		}
		if err != nil {
			return err
		}
	}

	if o.Status != 0 {
		w = &statusWriter{ResponseWriter: w, status: o.Status}
	}
	return view.Render(w, r, o.Model)
}

// statusWriter forces the outcome status over whatever the view writes.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(w.status)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
