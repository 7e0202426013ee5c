package main

import (
	"testing"
	"time"
)

func TestServeCmdValidate_SweepInterval(t *testing.T) {
	cases := []struct {
		interval time.Duration
		wantErr  bool
	}{
		{time.Minute, false},
		{time.Second, false},
		{0, true},
		{-time.Second, true},
	}
	for _, tc := range cases {
		cmd := ServeCmd{SweepInterval: tc.interval}
		err := cmd.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("interval %s: expected error %v, got %v", tc.interval, tc.wantErr, err)
		}
	}
}
