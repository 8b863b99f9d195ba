package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/postbox/internal/common"
)

type wirePayload struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type wireRequest struct {
	Type  RequestType  `json:"type"`
	Token string       `json:"token,omitempty"`
	Body  *wirePayload `json:"body,omitempty"`
}

type wireResponse struct {
	Code    ResponseCode `json:"code"`
	Token   string       `json:"token,omitempty"`
	Content *wirePayload `json:"content,omitempty"`
}

// EncodeRequest serializes req into a frame payload (without the length prefix).
func EncodeRequest(req *Request) ([]byte, error) {
	body, err := encodePayload(req.Body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireRequest{Type: req.Type, Token: req.Token, Body: body})
}

// DecodeRequest parses a frame payload into a Request. Any shape outside
// the known payload kinds yields common.ErrMalformedFrame.
func DecodeRequest(b []byte) (*Request, error) {
	var w wireRequest
	if err := strictUnmarshal(b, &w); err != nil {
		return nil, err
	}
	body, err := decodePayload(w.Body)
	if err != nil {
		return nil, err
	}
	return &Request{Type: w.Type, Token: w.Token, Body: body}, nil
}

// EncodeResponse serializes resp into a frame payload.
func EncodeResponse(resp *Response) ([]byte, error) {
	content, err := encodePayload(resp.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireResponse{Code: resp.Code, Token: resp.Token, Content: content})
}

// DecodeResponse parses a frame payload into a Response.
func DecodeResponse(b []byte) (*Response, error) {
	var w wireResponse
	if err := strictUnmarshal(b, &w); err != nil {
		return nil, err
	}
	if w.Code == "" {
		return nil, fmt.Errorf("%w: missing response code", common.ErrMalformedFrame)
	}
	content, err := decodePayload(w.Content)
	if err != nil {
		return nil, err
	}
	return &Response{Code: w.Code, Token: w.Token, Content: content}, nil
}

func encodePayload(p Payload) (*wirePayload, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Kind(), err)
	}
	return &wirePayload{Kind: p.Kind(), Data: data}, nil
}

func decodePayload(w *wirePayload) (Payload, error) {
	if w == nil {
		return nil, nil
	}
	if len(w.Data) == 0 {
		return nil, fmt.Errorf("%w: %s payload without data", common.ErrMalformedFrame, w.Kind)
	}

	switch w.Kind {
	case KindUser:
		var v Registration
		return decodeInto(w.Data, &v)
	case KindCredentials:
		var v Credentials
		return decodeInto(w.Data, &v)
	case KindMessage:
		var v Message
		return decodeInto(w.Data, &v)
	case KindUsername:
		var v Username
		return decodeInto(w.Data, &v)
	case KindMessages:
		var v Messages
		return decodeInto(w.Data, &v)
	case KindText:
		var v Text
		return decodeInto(w.Data, &v)
	default:
		return nil, fmt.Errorf("%w: unknown payload kind %q", common.ErrMalformedFrame, w.Kind)
	}
}

// decodeInto unmarshals data into v and returns the dereferenced value.
func decodeInto[T Payload](data []byte, v *T) (Payload, error) {
	if err := strictUnmarshal(data, v); err != nil {
		return nil, err
	}
	return *v, nil
}

// strictUnmarshal rejects unknown fields and trailing data.
func strictUnmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedFrame, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", common.ErrMalformedFrame)
	}
	return nil
}
