package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefreshRecordsComponentState(t *testing.T) {
	m := New(map[string]Check{
		"redis":      func(context.Context) error { return nil },
		"postgresql": func(context.Context) error { return errors.New("connection refused") },
	}, time.Minute, nil)

	if m.GetStatus().Online() {
		t.Fatal("monitor online before first check")
	}

	m.Refresh()
	status := m.GetStatus()
	if !status.Components["redis"] || status.Components["postgresql"] {
		t.Errorf("components = %v", status.Components)
	}
	if status.Online() {
		t.Error("monitor online with a failing component")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := New(nil, time.Hour, nil)
	m.Start()
	m.Stop()
	m.Stop()
}
