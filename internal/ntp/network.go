package ntp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrMalformedMessage = errors.New("malformed SNTP message")

// NewClientRequest returns the request sent for every query: no leap warning,
// version 4, client mode, everything else zero.
func NewClientRequest() Message {
	return Message{Header: PackHeader(NoWarning, VERSION, CLIENT)}
}

// Encode writes msg in network byte order. The result is always PacketSize bytes.
func Encode(msg Message) []byte {
	var buffer bytes.Buffer
	buffer.Grow(PacketSize)
	buffer.WriteByte(msg.Header)
	// Writes to a bytes.Buffer of fixed size values can't fail.
	binary.Write(&buffer, binary.BigEndian, &msg.Fields)
	return buffer.Bytes()
}

// Decode is the inverse of Encode. It does not check that the fields make
// sense, only that encoded has exactly PacketSize bytes.
func Decode(encoded []byte) (*Message, error) {
	if len(encoded) != PacketSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedMessage, len(encoded), PacketSize)
	}

	reader := bytes.NewReader(encoded)
	header, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	fields := Fields{}
	if err := binary.Read(reader, binary.BigEndian, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return &Message{Header: header, Fields: fields}, nil
}
