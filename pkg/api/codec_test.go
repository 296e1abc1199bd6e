package api

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestJSONCodec_Timestamp(t *testing.T) {
	codec := JSONCodec{}
	when := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	data, err := codec.Marshal(&Task{Id: "t", CreatedAt: NewTimestamp(when)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"createdAt":"2024-03-01T09:30:00Z"`) {
		t.Errorf("unexpected encoding: %s", data)
	}

	var got Task
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.CreatedAt.AsTime().Equal(when) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt.AsTime(), when)
	}
}

func TestJSONCodec_ProtoMessage(t *testing.T) {
	codec := JSONCodec{}

	data, err := codec.Marshal(timestamppb.New(time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"1970-01-01T00:00:00Z"` {
		t.Errorf("unexpected encoding: %s", data)
	}
}

func TestNewTimestamp_Zero(t *testing.T) {
	if NewTimestamp(time.Time{}) != nil {
		t.Error("zero time should map to nil")
	}
	var ts *Timestamp
	if !ts.AsTime().IsZero() {
		t.Error("nil Timestamp should be the zero time")
	}
}
