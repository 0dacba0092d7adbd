package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
)

// Opcodes (RFC 6455 section 5.2)
const (
	OpContinuation byte = 0x0
	OpText         byte = 0x1
	OpBinary       byte = 0x2
	OpClose        byte = 0x8
	OpPing         byte = 0x9
	OpPong         byte = 0xA
)

// Close status codes used by CloseFrame.
const (
	CloseNormalClosure   uint16 = 1000
	CloseGoingAway       uint16 = 1001
	CloseProtocolError   uint16 = 1002
	CloseNoStatusRcvd    uint16 = 1005
	CloseInvalidPayload  uint16 = 1007
	CloseMessageTooBig   uint16 = 1009
	CloseInternalFailure uint16 = 1011
)

// MaxControlPayload is the largest payload a control frame may carry.
const MaxControlPayload = 125

var (
	ErrUnknownOpcode  = errors.New("frame: unknown opcode")
	ErrControlTooLong = errors.New("frame: control frame payload exceeds 125 bytes")
	ErrFragmented     = errors.New("frame: control frames must not be fragmented")
	ErrBadClose       = errors.New("frame: malformed close payload")
)

// Header holds the fields shared by every frame.
type Header struct {
	Fin     bool
	Payload []byte
}

// Data is implemented by frames that carry application data.
type Data interface {
	core.Frame
	dataFrame()
}

// Control is implemented by control frames.
type Control interface {
	core.Frame
	controlFrame()
}

// TextFrame carries UTF-8 text.
type TextFrame struct{ Header }

func (*TextFrame) Kind() core.Kind { return KindText }
func (*TextFrame) dataFrame()      {}

// Text returns the payload as a string.
func (f *TextFrame) Text() string { return string(f.Payload) }

// BinaryFrame carries binary data.
type BinaryFrame struct{ Header }

func (*BinaryFrame) Kind() core.Kind { return KindBinary }
func (*BinaryFrame) dataFrame()      {}

// ContinuationFrame continues a fragmented text or binary message.
type ContinuationFrame struct{ Header }

func (*ContinuationFrame) Kind() core.Kind { return KindContinuation }
func (*ContinuationFrame) dataFrame()      {}

// CloseFrame starts or acknowledges the closing handshake.
type CloseFrame struct {
	Header
	Code   uint16
	Reason string
}

func (*CloseFrame) Kind() core.Kind { return KindClose }
func (*CloseFrame) controlFrame()   {}

// PingFrame is a keepalive request.
type PingFrame struct{ Header }

func (*PingFrame) Kind() core.Kind { return KindPing }
func (*PingFrame) controlFrame()   {}

// PongFrame answers a ping.
type PongFrame struct{ Header }

func (*PongFrame) Kind() core.Kind { return KindPong }
func (*PongFrame) controlFrame()   {}

// NewText returns a final text frame.
func NewText(s string) *TextFrame {
	return &TextFrame{Header{Fin: true, Payload: []byte(s)}}
}

// NewBinary returns a final binary frame.
func NewBinary(b []byte) *BinaryFrame {
	return &BinaryFrame{Header{Fin: true, Payload: b}}
}

// NewClose returns a close frame with its payload encoded from code and reason.
func NewClose(code uint16, reason string) *CloseFrame {
	var payload []byte
	if code != 0 && code != CloseNoStatusRcvd {
		payload = make([]byte, 2+len(reason))
		binary.BigEndian.PutUint16(payload, code)
		copy(payload[2:], reason)
	}
	return &CloseFrame{Header: Header{Fin: true, Payload: payload}, Code: code, Reason: reason}
}

// FromOpcode maps an already-decoded frame onto its frame type.
func FromOpcode(op byte, fin bool, payload []byte) (core.Frame, error) {
	h := Header{Fin: fin, Payload: payload}
	if op >= OpClose {
		if !fin {
			return nil, ErrFragmented
		}
		if len(payload) > MaxControlPayload {
			return nil, ErrControlTooLong
		}
	}

	switch op {
	case OpContinuation:
		return &ContinuationFrame{h}, nil
	case OpText:
		return &TextFrame{h}, nil
	case OpBinary:
		return &BinaryFrame{h}, nil
	case OpClose:
		f, err := parseClose(h)
		if err != nil {
			return nil, err
		}
		return f, nil
	case OpPing:
		return &PingFrame{h}, nil
	case OpPong:
		return &PongFrame{h}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%X", ErrUnknownOpcode, op)
	}
}

func parseClose(h Header) (*CloseFrame, error) {
	f := &CloseFrame{Header: h}
	switch {
	case len(h.Payload) == 0:
		f.Code = CloseNoStatusRcvd
	case len(h.Payload) == 1:
		return nil, ErrBadClose
	default:
		f.Code = binary.BigEndian.Uint16(h.Payload)
		if !utf8.Valid(h.Payload[2:]) {
			return nil, ErrBadClose
		}
		f.Reason = string(h.Payload[2:])
	}
	return f, nil
}

// Opcode returns the RFC 6455 opcode of a built-in frame.
func Opcode(f core.Frame) (byte, bool) {
	switch f.(type) {
	case *ContinuationFrame:
		return OpContinuation, true
	case *TextFrame:
		return OpText, true
	case *BinaryFrame:
		return OpBinary, true
	case *CloseFrame:
		return OpClose, true
	case *PingFrame:
		return OpPing, true
	case *PongFrame:
		return OpPong, true
	}
	return 0, false
}
