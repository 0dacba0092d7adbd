// Package scan discovers frame handlers and turns them into registry
// candidates.
//
// Discovery is the only place reflection is used. A TypeTable maps Go
// parameter types onto hierarchy kinds; Func and Typed wrap single
// functions; Methods collects every method of a receiver whose name starts
// with the handler prefix:
//
//	type Socket struct{}
//
//	func (s *Socket) OnFrame(f core.Frame)              { ... }
//	func (s *Socket) OnFrameText(f *frame.TextFrame) error { ... }
//
//	cands, err := scan.Methods(&Socket{}, scan.DefaultTypes())
//
// The returned candidates are plain data and can be handed to
// registry.Register.
package scan
