// Package registry validates frame handler candidates and dispatches frames
// to the most specific matching handler.
//
// A Registry is built once by Register and never changes afterwards, so it
// can be shared between goroutines without locking. For every frame kind the
// candidate set is the handlers whose declared kind is the frame's kind or
// one of its ancestors. The handler whose kind is a subtype of every other
// candidate wins. When no candidate exists the frame is Unhandled; when
// several candidates are each unbeaten the dispatch fails with a
// *core.DispatchAmbiguityError and no handler runs.
//
//	reg, err := registry.Register(frame.Default(), cands)
//	if err != nil {
//		return err
//	}
//	out, err := reg.Dispatch(ctx, frame.NewText("hello"))
package registry
