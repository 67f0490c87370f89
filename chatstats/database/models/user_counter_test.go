package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func Test_UserCounter_LastMessage(t *testing.T) {
	c := &UserCounter{}
	if got := c.LastMessage(); got != "Never" {
		t.Errorf("LastMessage() = %q, want %q", got, "Never")
	}

	ts := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	c.LastMessageTime = &ts
	if got := c.LastMessage(); got != "2024-05-01 12:30:45" {
		t.Errorf("LastMessage() = %q, want %q", got, "2024-05-01 12:30:45")
	}
}

func Test_EncodeCSV_empty(t *testing.T) {
	if got := EncodeCSV(nil); got != nil {
		t.Errorf("EncodeCSV(nil) = %q, want nil", got)
	}
	if got := EncodeCSV([]*UserCounter{}); got != nil {
		t.Errorf("EncodeCSV(empty) = %q, want nil", got)
	}
}

func Test_CSV_roundTrip(t *testing.T) {
	lastSeen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	counters := []*UserCounter{
		{UserID: 1, Username: "alice", MessageCount: 100, LastMessageTime: &lastSeen},
		{UserID: 2, Username: "bob, the builder", MessageCount: 50, IsBanned: true},
		{UserID: 3, Username: "carol"},
	}

	blob := EncodeCSV(counters)
	if !strings.HasPrefix(string(blob), "user_id,username,message_count,last_message_time,is_banned\n") {
		t.Fatalf("unexpected header in %q", blob)
	}

	got, err := DecodeCSV(blob)
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if !reflect.DeepEqual(got, counters) {
		t.Errorf("round trip = %+v, want %+v", got, counters)
	}
}

func Test_DecodeCSV_malformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "empty blob", blob: ""},
		{name: "short row", blob: "user_id,username,message_count,last_message_time,is_banned\n1,alice\n"},
		{name: "bad user id", blob: "user_id,username,message_count,last_message_time,is_banned\nx,alice,1,,false\n"},
		{name: "bad count", blob: "user_id,username,message_count,last_message_time,is_banned\n1,alice,x,,false\n"},
		{name: "bad timestamp", blob: "user_id,username,message_count,last_message_time,is_banned\n1,alice,1,yesterday,false\n"},
		{name: "bad ban flag", blob: "user_id,username,message_count,last_message_time,is_banned\n1,alice,1,,maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCSV([]byte(tt.blob)); err == nil {
				t.Error("DecodeCSV() expected an error")
			}
		})
	}
}
