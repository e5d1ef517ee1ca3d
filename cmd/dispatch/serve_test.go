package main

import (
	"strings"
	"testing"
	"time"
)

func TestServeCmd_MissingConfig(t *testing.T) {
	_, err := runCommand(t, "serve", "--config", "/nonexistent/dispatch.yaml")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestCronParserFiveField(t *testing.T) {
	sched, err := cronParser.Parse("*/5 * * * *")
	if err != nil {
		t.Fatalf("parse default schedule: %v", err)
	}

	at := time.Date(2026, 6, 15, 8, 2, 0, 0, time.Local)
	next := sched.Next(at)
	want := time.Date(2026, 6, 15, 8, 5, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", at, next, want)
	}
}

func TestCronParserRejectsSixFields(t *testing.T) {
	if _, err := cronParser.Parse("0 */5 * * * *"); err == nil {
		t.Error("6-field expression should be rejected")
	}
}
