package api

import (
	"encoding/json"
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// codecNameJSON matches the name Connect uses for application/json bodies.
const codecNameJSON = "json"

// Codec encodes the API's plain Go messages with encoding/json, and
// protobuf well-known types (emptypb.Empty) with protojson.
type Codec struct{}

var _ connect.Codec = Codec{}

// WithCodec is the option every handler and client of this API needs.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}

// Name implements connect.Codec.
func (Codec) Name() string { return codecNameJSON }

// Marshal implements connect.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return errors.New("zero-length payload is not a valid JSON object")
	}
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}
