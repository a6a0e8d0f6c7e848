// Package response builds handler.Response values: small closures that write a
// complete HTTP response.
//
// Responses are returned by handler.ResponseFunc handlers and are also the
// building blocks the render package uses to commit outcomes:
//
//	handler.ResponseFunc(func(r *http.Request) handler.Response {
//		user, err := users.Find(r.Context(), handler.Param(r, "id"))
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.JSON(user)
//	})
//
// # Errors
//
// HTTPError is a structured error carrying a status and a machine readable code.
// Any error that implements StatusCode() int is mapped to the matching
// predefined HTTPError by ErrorHandler and JSONErrorHandler; anything else
// becomes 500.
//
//	return response.Error(response.ErrNotFound.WithMessage("user not found"))
//
// # Templates
//
// Template and TemplateName buffer html/template output before writing so a
// failing template never produces a partial page. Templ renders a templ
// component with the request context.
package response
