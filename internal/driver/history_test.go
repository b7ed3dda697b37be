package driver

import (
	"path/filepath"
	"testing"
	"time"
)

func TestHistoryRecordAndRecent(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer h.Close()

	result := int32(42)
	if _, err := h.Record("deadbeef", 0, &result, 5*time.Millisecond); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := h.Record("feedface", 2, nil, time.Millisecond); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}
