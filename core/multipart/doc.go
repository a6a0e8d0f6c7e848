// Package multipart manages the lifecycle of parsed multipart requests during a
// dispatch.
//
// Wrap substitutes a parsed request for a multipart one and returns a Part that
// owns the parsed resources. The owner must call Release exactly once when the
// request is finished, which is either at the end of a synchronous dispatch or
// after an asynchronous completion:
//
//	part, err := multipart.Wrap(multipart.Standard{MaxMemory: 32 << 20}, r)
//	defer part.Release()
//	if err != nil {
//		// offer err to exception resolvers
//	}
//	r = part.Request()
//
// A request that was already parsed upstream is passed through untouched and the
// returned Part does not own it, so Release is a no-op.
package multipart
