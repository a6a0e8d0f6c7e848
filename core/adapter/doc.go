// Package adapter turns opaque handlers into invocations.
//
// An Adapter declares which handler shapes it supports; a Registry queries its
// adapters in order and returns the first match. A handler nobody supports is
// a configuration fault reported as ErrNoAdapter.
//
//	reg := adapter.NewRegistry(myAdapter{}, adapter.Func{}, adapter.Response{}, adapter.HTTP{})
//	a, err := reg.For(h)
//	if err != nil {
//		return err // misconfiguration, not a per-request error
//	}
//	outcome, err := a.Handle(w, r, h)
package adapter
