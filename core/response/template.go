package response

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// ErrNilTemplate is returned when a template response has no template.
var ErrNilTemplate = errors.New("response: template is nil")

func executeTemplate(tmpl *template.Template, name string, data any, w io.Writer) error {
	if tmpl == nil {
		return ErrNilTemplate
	}
	if name != "" {
		return tmpl.ExecuteTemplate(w, name, data)
	}
	return tmpl.Execute(w, data)
}

// Template creates an HTML response using html/template with 200 OK status.
func Template(tmpl *template.Template, data any) handler.Response {
	return TemplateName(tmpl, "", data, http.StatusOK)
}

// TemplateName renders a named template from a collection with the given
// status. An empty name executes tmpl itself. Output is buffered, so nothing is
// written when execution fails.
func TemplateName(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		var buf bytes.Buffer
		if err := executeTemplate(tmpl, name, data, &buf); err != nil {
			return err
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if r.Method == http.MethodHead {
			return nil
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
}
