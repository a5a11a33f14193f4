package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Magic prefixes every i3/Sway IPC message
const Magic = "i3-ipc"

// headerSize is magic + payload length + message type
const headerSize = len(Magic) + 8

// MaxPayloadSize bounds a single message. Large trees stay well below it.
const MaxPayloadSize = 64 << 20

// MessageType identifies a request, reply, or event
type MessageType uint32

const (
	MsgRunCommand MessageType = 0
	MsgSubscribe  MessageType = 2
	MsgGetTree    MessageType = 4
	MsgGetVersion MessageType = 7

	// eventMask is set on the type of every event message
	eventMask MessageType = 1 << 31

	EventWindow MessageType = eventMask | 3
)

// IsEvent returns true if the message is an asynchronous event
func (t MessageType) IsEvent() bool {
	return t&eventMask != 0
}

// Message is one framed IPC message
type Message struct {
	Type    MessageType
	Payload []byte
}

// Encode writes the framed message to w
func (m *Message) Encode(w io.Writer) error {
	buf := make([]byte, headerSize+len(m.Payload))
	copy(buf, Magic)
	binary.NativeEndian.PutUint32(buf[len(Magic):], uint32(len(m.Payload)))
	binary.NativeEndian.PutUint32(buf[len(Magic)+4:], uint32(m.Type))
	copy(buf[headerSize:], m.Payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// ReadMessage reads one framed message from r
func ReadMessage(r io.Reader) (*Message, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if !bytes.Equal(header[:len(Magic)], []byte(Magic)) {
		return nil, fmt.Errorf("invalid magic %q", header[:len(Magic)])
	}

	length := binary.NativeEndian.Uint32(header[len(Magic):])
	msgType := MessageType(binary.NativeEndian.Uint32(header[len(Magic)+4:]))
	if length > MaxPayloadSize {
		return nil, fmt.Errorf("payload of %d bytes exceeds limit of %d", length, MaxPayloadSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	return &Message{Type: msgType, Payload: payload}, nil
}
