// Package render commits handler outcomes to the response.
//
// Views renders an outcome by view instance or by name. Names are resolved
// through ViewResolvers in order; the first resolver that knows the name wins:
//
//	pages := template.Must(template.ParseGlob("views/*.html"))
//	renderer := render.New(
//		render.Templates{Set: pages, Suffix: ".html"},
//		render.Components{"home": func(m map[string]any) templ.Component { return views.Home(m) }},
//		render.JSON{},
//	)
//
// An outcome without a view and without a model only commits its status. An
// outcome whose view name no resolver knows fails with ErrViewNotFound.
package render
