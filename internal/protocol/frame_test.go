package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRequest_ReassemblesChunkedStream(t *testing.T) {
	var buf bytes.Buffer
	first := &Request{Type: RequestMessage, Body: sampleMessage()}
	second := &Request{Type: RequestDownload, Body: Username("bob")}
	require.NoError(t, WriteRequest(&buf, first))
	require.NoError(t, WriteRequest(&buf, second))

	r := iotest.OneByteReader(&buf)

	got, err := ReadRequest(r, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, got))

	got, err = ReadRequest(r, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(second, got))

	_, err = ReadRequest(r, DefaultMaxFrameSize)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrame_LargePayload(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 64*1024)
	msg := sampleMessage()
	msg.Body = string(body)

	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, &Response{Code: CodeSuccess, Content: Messages{msg}}))

	got, err := ReadResponse(iotest.HalfReader(&buf), DefaultMaxFrameSize)
	require.NoError(t, err)
	require.IsType(t, Messages{}, got.Content)
	assert.Equal(t, msg.Body, got.Content.(Messages)[0].Body)
}

func TestReadFrame_Errors(t *testing.T) {
	header := func(n uint32) []byte {
		b := make([]byte, HeaderSize)
		binary.BigEndian.PutUint32(b, n)
		return b
	}

	tests := []struct {
		name    string
		input   []byte
		max     uint32
		wantErr error
	}{
		{"clean eof", nil, 16, io.EOF},
		{"partial header", []byte{0, 0}, 16, io.ErrUnexpectedEOF},
		{"length beyond available bytes", append(header(10), 'a', 'b'), 16, io.ErrUnexpectedEOF},
		{"header only", header(5), 16, io.ErrUnexpectedEOF},
		{"zero length", header(0), 16, common.ErrMalformedFrame},
		{"above limit", header(17), 16, common.ErrMalformedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tt.input), tt.max)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWriteFrame_RejectsEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, nil)
	assert.ErrorIs(t, err, common.ErrMalformedFrame)
	assert.Zero(t, buf.Len())
}

func FuzzReadRequest(f *testing.F) {
	var valid bytes.Buffer
	_ = WriteRequest(&valid, &Request{Type: RequestLogin, Body: Credentials{Username: "a", Password: "b"}})
	f.Add(valid.Bytes())
	f.Add([]byte{0, 0, 0, 200, '{'})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, err := ReadRequest(bytes.NewReader(data), 4096)
		if err == nil {
			return
		}
		if !errors.Is(err, common.ErrMalformedFrame) && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("unexpected error class: %v", err)
		}
	})
}
