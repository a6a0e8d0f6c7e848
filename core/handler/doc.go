// Package handler defines the types shared by every stage of a dispatch:
// handlers, outcomes, interceptors and the per-request execution chain.
//
// A resolver produces an ExecutionChain pairing an opaque Handler with its
// interceptors. The dispatcher starts an Execution for each request and drives
// it through the interceptor protocol:
//
//	exec := chain.Start()
//	ok, err := exec.ApplyPreHandle(w, r)   // registration order
//	// ... invoke the handler through an adapter ...
//	exec.MarkInvoked()
//	err = exec.ApplyPostHandle(w, r, outcome) // reverse order
//	err = exec.TriggerAfterCompletion(w, r, cause) // reverse order, exactly once
//
// Only interceptors whose PreHandle returned true receive AfterCompletion. When
// the handler defers completion to a background task the dispatcher calls
// ApplyAfterConcurrentHandlingStarted instead, and the async completion path
// later calls Resume before running post-handle and after-completion.
//
// # Handlers
//
// Handler shapes understood by the built-in adapters:
//
//	handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
//		return handler.NewOutcome("users/show", map[string]any{"id": handler.Param(r, "id")}), nil
//	})
//
//	handler.ResponseFunc(func(r *http.Request) handler.Response {
//		return response.JSON(map[string]string{"status": "ok"})
//	})
//
//	http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ... })
//
// A handler that also implements LastModifier takes part in conditional GET
// handling, and one that implements ErrorHandler can recover from its own
// failures before global exception resolvers are consulted. Versioned attaches
// a last-modified source to any handler shape without changing its adapter.
//
// # Failures
//
// Errors returned by handlers and interceptors are application failures.
// Recovered panics are wrapped in *ProcessingError, which keeps the original
// value and stack so exception resolvers can special-case them.
package handler
