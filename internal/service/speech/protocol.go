package speech

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

// Frames on the ASR websocket start with a four byte header:
//
//	byte 0: protocol version (high nibble) | header size in 4-byte words
//	byte 1: message type | message flags
//	byte 2: serialization | compression
//	byte 3: reserved
//
// followed by an optional sequence number, then either a payload size or,
// for error frames, an error code and a payload size.
const protocolVersion = 0b0001

type messageType uint8

const (
	fullClientRequest  messageType = 0b0001
	audioOnlyRequest   messageType = 0b0010
	fullServerResponse messageType = 0b1001
	serverAck          messageType = 0b1011
	serverError        messageType = 0b1111
)

type messageFlags uint8

const (
	flagNoSequence       messageFlags = 0b0000
	flagPositiveSequence messageFlags = 0b0001
	flagLastNoSequence   messageFlags = 0b0010
	flagNegativeSequence messageFlags = 0b0011
)

type serialization uint8

const (
	serializeNone serialization = 0b0000
	serializeJSON serialization = 0b0001
)

type compression uint8

const (
	compressNone compression = 0b0000
	compressGzip compression = 0b0001
)

// frame holds its payload uncompressed; compress selects the wire encoding.
type frame struct {
	kind      messageType
	flags     messageFlags
	serial    serialization
	compress  compression
	sequence  int32
	errorCode uint32
	payload   []byte
}

func (f *frame) hasSequence() bool {
	switch f.flags & 0b0011 {
	case flagPositiveSequence, flagNegativeSequence:
		return true
	}
	return false
}

// last reports whether the frame closes the stream.
func (f *frame) last() bool {
	switch f.flags & 0b0011 {
	case flagLastNoSequence, flagNegativeSequence:
		return true
	}
	return false
}

func (f *frame) encode() ([]byte, error) {
	payload := f.payload
	if f.compress == compressGzip {
		var zbuf bytes.Buffer
		zw := gzip.NewWriter(&zbuf)
		if _, err := zw.Write(payload); err != nil {
			zw.Close()
			return nil, fmt.Errorf("gzip payload: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gzip payload: %w", err)
		}
		payload = zbuf.Bytes()
	}

	var buf bytes.Buffer
	buf.Write([]byte{
		protocolVersion<<4 | 0b0001,
		uint8(f.kind)<<4 | uint8(f.flags),
		uint8(f.serial)<<4 | uint8(f.compress),
		0,
	})

	var word [4]byte
	if f.hasSequence() {
		binary.BigEndian.PutUint32(word[:], uint32(f.sequence))
		buf.Write(word[:])
	}
	if f.kind == serverError {
		binary.BigEndian.PutUint32(word[:], f.errorCode)
		buf.Write(word[:])
	}
	binary.BigEndian.PutUint32(word[:], uint32(len(payload)))
	buf.Write(word[:])
	buf.Write(payload)
	return buf.Bytes(), nil
}

func decodeFrame(data []byte) (*frame, error) {
	r := bytes.NewReader(data)

	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if v := head[0] >> 4; v != protocolVersion {
		return nil, fmt.Errorf("unsupported protocol version: %d", v)
	}

	f := &frame{
		kind:     messageType(head[1] >> 4),
		flags:    messageFlags(head[1] & 0x0F),
		serial:   serialization(head[2] >> 4),
		compress: compression(head[2] & 0x0F),
	}

	if extra := int(head[0]&0x0F)*4 - 4; extra > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(extra)); err != nil {
			return nil, fmt.Errorf("read extended header: %w", err)
		}
	}

	readWord := func(what string) (uint32, error) {
		var v uint32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return 0, fmt.Errorf("read %s: %w", what, err)
		}
		return v, nil
	}

	if f.hasSequence() {
		seq, err := readWord("sequence")
		if err != nil {
			return nil, err
		}
		f.sequence = int32(seq)
	}
	if f.kind == serverError {
		code, err := readWord("error code")
		if err != nil {
			return nil, err
		}
		f.errorCode = code
	}

	size, err := readWord("payload size")
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return f, nil
	}
	f.payload = make([]byte, size)
	if _, err := io.ReadFull(r, f.payload); err != nil {
		return nil, fmt.Errorf("read payload (expected %d bytes): %w", size, err)
	}

	switch f.compress {
	case compressNone:
	case compressGzip:
		zr, err := gzip.NewReader(bytes.NewReader(f.payload))
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer zr.Close()
		if f.payload, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("gzip read: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported compression method: %d", f.compress)
	}
	return f, nil
}

// configFrame carries the JSON session parameters, gzipped on the wire.
func configFrame(payload []byte) *frame {
	return &frame{kind: fullClientRequest, flags: flagNoSequence, serial: serializeJSON, compress: compressGzip, payload: payload}
}

// audioFrame carries one audio chunk, gzipped on the wire. The final chunk has a
// negated sequence number.
func audioFrame(chunk []byte, sequence int32, last bool) *frame {
	f := &frame{kind: audioOnlyRequest, flags: flagPositiveSequence, serial: serializeNone, compress: compressGzip, sequence: sequence, payload: chunk}
	if last {
		f.flags = flagNegativeSequence
		f.sequence = -sequence
	}
	return f
}
