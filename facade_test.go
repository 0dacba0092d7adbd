package frames_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	frames "github.com/jdziat/simple-frame-handlers"
)

// FrameSocket handles text frames specially and everything else generically.
type FrameSocket struct {
	text  []string
	other []frames.Kind
}

func (s *FrameSocket) OnFrame(f frames.Frame)          { s.other = append(s.other, f.Kind()) }
func (s *FrameSocket) OnFrameText(f *frames.TextFrame) { s.text = append(s.text, f.Text()) }

// ---------------------------------------------------------------------------
// Registry through the facade
// ---------------------------------------------------------------------------

func TestFacade_MethodsRegisterDispatch(t *testing.T) {
	s := &FrameSocket{}
	cands, err := frames.Methods(s, frames.DefaultTypes())
	require.NoError(t, err)

	reg, err := frames.Register(frames.DefaultHierarchy(), cands)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	out, err := reg.Dispatch(context.Background(), frames.NewText("hello"))
	require.NoError(t, err)
	assert.Equal(t, frames.Handled, out.Status)
	assert.Equal(t, "FrameSocket.OnFrameText", out.Descriptor.Label)

	out, err = reg.Dispatch(context.Background(), frames.NewBinary([]byte{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, "FrameSocket.OnFrame", out.Descriptor.Label)

	assert.Equal(t, []string{"hello"}, s.text)
	assert.Equal(t, []frames.Kind{frames.KindBinary}, s.other)
}

func TestFacade_FuncAndTyped(t *testing.T) {
	var seen []string
	text, err := frames.Typed("text", func(_ context.Context, f *frames.TextFrame) error {
		seen = append(seen, "text:"+f.Text())
		return nil
	})
	require.NoError(t, err)
	control, err := frames.Func("control", func(f frames.ControlFrame) {
		seen = append(seen, "control")
	})
	require.NoError(t, err)

	reg, err := frames.Register(nil, []frames.Candidate{text, control})
	require.NoError(t, err)

	for _, f := range []frames.Frame{frames.NewText("a"), &frames.PingFrame{}, frames.NewClose(1000, "bye")} {
		_, err := reg.Dispatch(context.Background(), f)
		require.NoError(t, err)
	}
	out, err := reg.Dispatch(context.Background(), frames.NewBinary(nil))
	require.NoError(t, err)
	assert.Equal(t, frames.Unhandled, out.Status)

	assert.Equal(t, []string{"text:a", "control", "control"}, seen)
}

func TestFacade_Errors(t *testing.T) {
	a, err := frames.Func("a", func(*frames.TextFrame) {})
	require.NoError(t, err)
	b, err := frames.Func("b", func(*frames.TextFrame) {})
	require.NoError(t, err)

	_, err = frames.Register(nil, []frames.Candidate{a, b})
	var regErr *frames.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.ErrorIs(t, err, frames.ErrDuplicateKind)

	// A non-frame parameter is only rejected at registration.
	bad, err := frames.Func("bad", func(string) {})
	require.NoError(t, err)
	_, err = frames.Register(nil, []frames.Candidate{bad})
	assert.ErrorIs(t, err, frames.ErrNotFrameType)

	_, err = frames.FromOpcode(0x3, true, nil)
	assert.ErrorIs(t, err, frames.ErrUnknownOpcode)
}

func TestFacade_CustomHierarchyAmbiguity(t *testing.T) {
	h := frames.NewHierarchy()
	a, err := h.Define("Audio", frames.KindBinary)
	require.NoError(t, err)
	v, err := h.Define("Video", frames.KindBinary)
	require.NoError(t, err)
	av, err := h.Define("AudioVideo", a, v)
	require.NoError(t, err)

	noop := func(context.Context, frames.Frame) error { return nil }
	reg, err := frames.Register(h, []frames.Candidate{
		{Label: "audio", Params: []frames.Kind{a}, Invoke: noop},
		{Label: "video", Params: []frames.Kind{v}, Invoke: noop},
	})
	require.NoError(t, err)

	_, err = reg.Resolve(av)
	var amb *frames.DispatchAmbiguityError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"audio", "video"}, amb.Labels)
}

type prefixedSocket struct{ texts int }

func (s *prefixedSocket) HandleText(*frames.TextFrame) { s.texts++ }

func TestFacade_MethodPrefixAndCustomTypes(t *testing.T) {
	s := &prefixedSocket{}
	cands, err := frames.Methods(s, nil, frames.MethodPrefix("Handle"))
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "prefixedSocket.HandleText", cands[0].Label)

	h := frames.NewHierarchy()
	chat, err := h.Define("Chat", frames.KindText)
	require.NoError(t, err)
	types := frames.DefaultTypesFor(h)
	err = frames.BindType[*chatFrame](types, chat)
	assert.ErrorIs(t, err, frames.ErrTypeConflict)

	_, err = frames.Methods(s, types)
	assert.ErrorIs(t, err, frames.ErrNoHandlers)
}

type chatFrame struct{ frames.TextFrame }

// ---------------------------------------------------------------------------
// Endpoint through the facade
// ---------------------------------------------------------------------------

func TestFacade_Endpoint(t *testing.T) {
	ep := frames.NewEndpoint()
	id, err := ep.Bind(&FrameSocket{}, frames.BindLabel("socket"))
	require.NoError(t, err)
	assert.Equal(t, []frames.Binding{{ID: id, Label: "socket", Handlers: 2}}, ep.Bindings())

	var info frames.DispatchInfo
	watch, err := frames.Typed("watch", func(ctx context.Context, _ *frames.PingFrame) error {
		info, _ = frames.InfoFromContext(ctx)
		return errors.New("watch failed")
	})
	require.NoError(t, err)
	watchID, err := ep.BindCandidates("watch", []frames.Candidate{watch})
	require.NoError(t, err)

	results, err := ep.Dispatch(context.Background(), &frames.PingFrame{})
	var hErr *frames.HandlerInvocationError
	require.ErrorAs(t, err, &hErr)
	require.Len(t, results, 2)
	assert.Equal(t, "FrameSocket.OnFrame", results[0].Outcome.Descriptor.Label)
	assert.Equal(t, frames.DispatchInfo{BindingID: watchID, Receiver: "watch", Label: "watch", Kind: "PingFrame"}, info)
}

// ---------------------------------------------------------------------------
// Validation helpers
// ---------------------------------------------------------------------------

func TestFacade_Validation(t *testing.T) {
	assert.NoError(t, frames.ValidateKindName("TextFrame"))
	assert.ErrorIs(t, frames.ValidateKindName("1bad"), frames.ErrInvalidKind)
	assert.NoError(t, frames.ValidateLabel("Socket.OnFrame"))
	assert.ErrorIs(t, frames.ValidateLabel(""), frames.ErrInvalidLabel)
	assert.Equal(t, "ab", frames.SanitizeErrorMessage("a\x00b"))
	assert.Equal(t, 256, frames.MaxHandlersPerReceiver)
	assert.Equal(t, 4096, frames.MaxKinds)
}
