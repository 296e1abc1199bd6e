package api

import (
	"encoding/json"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName is the Connect codec name; requests use Content-Type application/json.
const CodecName = "json"

// JSONCodec marshals proto messages with protojson and plain Go message
// structs with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

// Timestamp is a google.protobuf.Timestamp carried in a JSON message. It
// encodes as an RFC 3339 string.
type Timestamp struct {
	pb *timestamppb.Timestamp
}

// NewTimestamp converts t. The zero time becomes nil.
func NewTimestamp(t time.Time) *Timestamp {
	if t.IsZero() {
		return nil
	}
	return &Timestamp{pb: timestamppb.New(t)}
}

// AsTime returns the time in UTC. A nil Timestamp is the zero time.
func (t *Timestamp) AsTime() time.Time {
	if t == nil || t.pb == nil {
		return time.Time{}
	}
	return t.pb.AsTime()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.pb == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.pb)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.pb = nil
		return nil
	}
	pb := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, pb); err != nil {
		return err
	}
	t.pb = pb
	return nil
}
