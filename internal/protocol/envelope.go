// Package protocol implements the postbox wire format: request and response
// envelopes carrying a closed set of tagged payloads, serialized as JSON and
// framed with a 4-byte big-endian length prefix.
package protocol

// RequestType selects the server operation. Values outside the known set
// still decode; the server answers them with BAD_REQUEST.
type RequestType string

const (
	RequestRegister RequestType = "REGISTER"
	RequestLogin    RequestType = "LOGIN"
	RequestMessage  RequestType = "MESSAGE"
	RequestDownload RequestType = "DOWNLOAD"
)

// ResponseCode is the outcome reported by the server.
type ResponseCode string

const (
	CodeSuccess      ResponseCode = "SUCCESS"
	CodeError        ResponseCode = "ERROR"
	CodeBadRequest   ResponseCode = "BAD_REQUEST"
	CodeUnauthorized ResponseCode = "UNAUTHORIZED"
)

// Kind tags a payload on the wire.
type Kind string

const (
	KindUser        Kind = "user"
	KindCredentials Kind = "credentials"
	KindMessage     Kind = "message"
	KindUsername    Kind = "username"
	KindMessages    Kind = "messages"
	KindText        Kind = "text"
)

// Payload is the closed union of shapes an envelope may carry. Only the
// types declared in this package implement it.
type Payload interface {
	Kind() Kind
	payload()
}

// Registration is the REGISTER body. Password travels in plaintext.
type Registration struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// Credentials is the LOGIN body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Username is the DOWNLOAD body.
type Username string

// Messages is the DOWNLOAD success content.
type Messages []Message

// Text is a plain string response content.
type Text string

func (Registration) Kind() Kind { return KindUser }
func (Credentials) Kind() Kind  { return KindCredentials }
func (Message) Kind() Kind      { return KindMessage }
func (Username) Kind() Kind     { return KindUsername }
func (Messages) Kind() Kind     { return KindMessages }
func (Text) Kind() Kind         { return KindText }

func (Registration) payload() {}
func (Credentials) payload()  {}
func (Message) payload()      {}
func (Username) payload()     {}
func (Messages) payload()     {}
func (Text) payload()         {}

// Request is sent by the client. Token is optional and only consulted when
// the server enforces sessions.
type Request struct {
	Type  RequestType
	Token string
	Body  Payload
}

// Response is sent by the server, exactly one per request. Token is set on
// a successful LOGIN.
type Response struct {
	Code    ResponseCode
	Token   string
	Content Payload
}

// NewTextResponse is a shorthand for responses carrying a string.
func NewTextResponse(code ResponseCode, text string) *Response {
	return &Response{Code: code, Content: Text(text)}
}
