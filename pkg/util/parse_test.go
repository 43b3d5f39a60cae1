package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 60); got != 60 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("240", 60); got != 240 {
		t.Fatalf("expected 240, got %d", got)
	}
	if got := ParseIntDefault("abc", 60); got != 60 {
		t.Fatalf("expected default for junk, got %d", got)
	}
}
