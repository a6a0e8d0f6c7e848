// Package async implements the single asynchronous-completion path a dispatch
// may take.
//
// The dispatcher installs a Manager in the request context. A handler that wants
// to finish the request in the background calls Start with a task instead of
// producing an outcome synchronously:
//
//	func report(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
//		err := async.Start(r, func(ctx context.Context) (*handler.Outcome, error) {
//			data, err := buildReport(ctx)
//			if err != nil {
//				return nil, err
//			}
//			return handler.NewOutcome("reports/show", data), nil
//		})
//		return nil, err
//	}
//
// Once the handler returns, the dispatcher sees IsConcurrentHandlingStarted and
// hands the rest of the request (post-handle, rendering, after-completion and
// resource cleanup) to Handoff. The task runs on its own goroutine, is bounded by
// a timeout and the request context, and the completion callback runs exactly
// once whatever happens to the task.
//
// Panics inside the task are recovered into *handler.ProcessingError. A task that
// does not finish in time completes with ErrTimeout.
package async
