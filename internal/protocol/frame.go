package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dmitrijs2005/postbox/internal/common"
)

const (
	// HeaderSize is the length of the big-endian frame length prefix.
	HeaderSize = 4

	// DefaultMaxFrameSize bounds the payload a peer may announce.
	DefaultMaxFrameSize = 1 << 20
)

// WriteFrame writes payload preceded by its length. The frame is emitted with
// a single Write so concurrent writers on different connections never mix.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 || uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: payload size %d", common.ErrMalformedFrame, len(payload))
	}
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads exactly one frame from r, however the bytes are chunked.
//
// It returns io.EOF when the stream ends cleanly before a header,
// io.ErrUnexpectedEOF when it ends inside a frame, and
// common.ErrMalformedFrame when the announced size is zero or above maxSize.
func ReadFrame(r io.Reader, maxSize uint32) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header[:])
	if size == 0 {
		return nil, fmt.Errorf("%w: empty frame", common.ErrMalformedFrame)
	}
	if maxSize > 0 && size > maxSize {
		return nil, fmt.Errorf("%w: frame of %d bytes exceeds limit %d", common.ErrMalformedFrame, size, maxSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// WriteRequest encodes and frames req.
func WriteRequest(w io.Writer, req *Request) error {
	b, err := EncodeRequest(req)
	if err != nil {
		return err
	}
	return WriteFrame(w, b)
}

// ReadRequest reads and decodes one framed request.
func ReadRequest(r io.Reader, maxSize uint32) (*Request, error) {
	b, err := ReadFrame(r, maxSize)
	if err != nil {
		return nil, err
	}
	return DecodeRequest(b)
}

// WriteResponse encodes and frames resp.
func WriteResponse(w io.Writer, resp *Response) error {
	b, err := EncodeResponse(resp)
	if err != nil {
		return err
	}
	return WriteFrame(w, b)
}

// ReadResponse reads and decodes one framed response.
func ReadResponse(r io.Reader, maxSize uint32) (*Response, error) {
	b, err := ReadFrame(r, maxSize)
	if err != nil {
		return nil, err
	}
	return DecodeResponse(b)
}
