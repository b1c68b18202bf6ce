// Package archive stores a parsed frame sequence as a binary replay file.
//
// An archive is a stream of length-prefixed msgpack frames: a 4-byte
// big-endian payload length followed by the payload. The first frame is a
// header; each following frame carries one types.Frame in sequence order.
package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/types"
)

const (
	// MaxFrameSize is the maximum frame size (16 MiB), including length prefix.
	MaxFrameSize = 16 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size (MaxFrameSize - 4 bytes).
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// FormatVersion is written into every header. Readers reject others.
	FormatVersion = 1

	// Extension is the file extension of archives.
	Extension = ".arena"
)

const (
	headerType = "header"
	frameType  = "frame"
)

// Header is the first frame of an archive.
type Header struct {
	Type    string `msgpack:"type"`
	Version int    `msgpack:"version"`
	// Frames is the number of frame records that follow.
	Frames int `msgpack:"frames"`
	// Source is the path of the log the archive was built from.
	Source string `msgpack:"source"`
	// Tool is the arenaviz version that wrote the archive.
	Tool string `msgpack:"tool"`
}

type frameRecord struct {
	Type  string       `msgpack:"type"`
	Frame *types.Frame `msgpack:"frame"`
}

// ErrorKind classifies archive errors.
type ErrorKind int

const (
	// ErrorPartial indicates a truncated or incomplete frame.
	ErrorPartial ErrorKind = iota
	// ErrorTooLarge indicates a frame exceeding MaxFrameSize.
	ErrorTooLarge
	// ErrorDecode indicates a msgpack encoding or decoding error.
	ErrorDecode
	// ErrorHeader indicates a missing, unsupported or inconsistent header.
	ErrorHeader
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorPartial:
		return "partial"
	case ErrorTooLarge:
		return "too_large"
	case ErrorDecode:
		return "decode"
	case ErrorHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Error represents an archive read or write failure.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive: %s: %v", e.Msg, e.Err)
	}
	return "archive: " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the stream cannot be read past this error.
// Partial and oversized frames are fatal.
func (e *Error) IsFatal() bool {
	return e.Kind == ErrorPartial || e.Kind == ErrorTooLarge
}

// IsFatalError returns true if err is a fatal *Error.
func IsFatalError(err error) bool {
	var archErr *Error
	if errors.As(err, &archErr) {
		return archErr.IsFatal()
	}
	return false
}

// Writer encodes frames onto a stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSequence writes a header followed by every frame of seq.
func (w *Writer) WriteSequence(seq *frames.Sequence, source string) error {
	header := Header{
		Type:    headerType,
		Version: FormatVersion,
		Frames:  seq.Len(),
		Source:  source,
		Tool:    types.Version,
	}
	if err := w.writeFrame(&header); err != nil {
		return err
	}
	for _, f := range seq.All() {
		if err := w.writeFrame(&frameRecord{Type: frameType, Frame: f}); err != nil {
			return fmt.Errorf("frame %d: %w", f.Index, err)
		}
	}
	return nil
}

func (w *Writer) writeFrame(v any) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return &Error{Kind: ErrorDecode, Msg: "failed to encode frame", Err: err}
	}
	if len(payload) > MaxPayloadSize {
		return &Error{
			Kind: ErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write length prefix: %w", err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// Reader decodes frames from a stream.
type Reader struct {
	r io.Reader
}

// NewReader creates a reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadFrame reads one raw payload.
//
// Errors:
//   - io.EOF: stream ended cleanly (no more frames)
//   - *Error with Kind=ErrorPartial: incomplete frame (fatal)
//   - *Error with Kind=ErrorTooLarge: frame exceeds limit (fatal)
func (r *Reader) ReadFrame() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	if _, err := io.ReadFull(r.r, lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &Error{Kind: ErrorPartial, Msg: "failed to read length prefix", Err: err}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &Error{
			Kind: ErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, &Error{Kind: ErrorPartial, Msg: "failed to read payload", Err: err}
	}
	return payload, nil
}

// ReadHeader reads and validates the header frame.
func (r *Reader) ReadHeader() (*Header, error) {
	payload, err := r.ReadFrame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Kind: ErrorHeader, Msg: "missing header", Err: err}
		}
		return nil, err
	}

	var h Header
	if err := msgpack.Unmarshal(payload, &h); err != nil {
		return nil, &Error{Kind: ErrorDecode, Msg: "failed to decode header", Err: err}
	}
	if h.Type != headerType {
		return nil, &Error{Kind: ErrorHeader, Msg: fmt.Sprintf("first frame has type %q, want %q", h.Type, headerType)}
	}
	if h.Version != FormatVersion {
		return nil, &Error{Kind: ErrorHeader, Msg: fmt.Sprintf("unsupported version %d", h.Version)}
	}
	if h.Frames < 0 {
		return nil, &Error{Kind: ErrorHeader, Msg: fmt.Sprintf("negative frame count %d", h.Frames)}
	}
	return &h, nil
}

// ReadSequence reads a whole archive. The number of frames must match the header.
func (r *Reader) ReadSequence() (*frames.Sequence, *Header, error) {
	h, err := r.ReadHeader()
	if err != nil {
		return nil, nil, err
	}

	out := make([]*types.Frame, 0, h.Frames)
	for {
		payload, err := r.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		var rec frameRecord
		if err := msgpack.Unmarshal(payload, &rec); err != nil {
			return nil, nil, &Error{Kind: ErrorDecode, Msg: fmt.Sprintf("failed to decode frame %d", len(out)), Err: err}
		}
		if rec.Type != frameType || rec.Frame == nil {
			return nil, nil, &Error{Kind: ErrorDecode, Msg: fmt.Sprintf("record %d is not a frame (type %q)", len(out), rec.Type)}
		}
		rec.Frame.Index = len(out)
		out = append(out, rec.Frame)
	}

	if len(out) != h.Frames {
		return nil, nil, &Error{
			Kind: ErrorHeader,
			Msg:  fmt.Sprintf("header announces %d frames, found %d", h.Frames, len(out)),
		}
	}
	return frames.New(out), h, nil
}
