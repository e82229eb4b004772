package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/uagen/internal/catalog"
	"github.com/FranksOps/uagen/internal/generator"
)

func testBatch() *generator.Batch {
	return &generator.Batch{
		Samples: []generator.Sample{
			{Market: catalog.USA, Android: 14, Chrome: 122},
			{Market: catalog.Global, Android: 14, Chrome: 121},
			{Market: catalog.Global, Android: 13, Chrome: 121},
		},
		Attempts:   4,
		Collisions: 1,
	}
}

func TestGenerateSummary(t *testing.T) {
	now := time.Now()
	run := Run{
		ID:          "run-1",
		Requested:   3,
		StoreBefore: 10,
		StoreAfter:  13,
		StartTime:   now,
		EndTime:     now.Add(2 * time.Second),
	}

	summary := GenerateSummary(run, testBatch())

	if summary.Generated != 3 {
		t.Errorf("expected 3 generated, got %d", summary.Generated)
	}
	if summary.ByMarket["Global"] != 2 || summary.ByMarket["USA"] != 1 {
		t.Errorf("unexpected market split: %v", summary.ByMarket)
	}
	if summary.ByAndroid[14] != 2 {
		t.Errorf("expected 2 Android 14, got %d", summary.ByAndroid[14])
	}
	if summary.ByChrome[121] != 2 {
		t.Errorf("expected 2 Chrome 121, got %d", summary.ByChrome[121])
	}
	if summary.Duration != 2*time.Second {
		t.Errorf("expected 2s duration, got %v", summary.Duration)
	}
	if summary.Attempts != 4 || summary.Collisions != 1 {
		t.Errorf("unexpected attempts/collisions: %d/%d", summary.Attempts, summary.Collisions)
	}
}

func TestGenerateSummary_NilBatch(t *testing.T) {
	summary := GenerateSummary(Run{Requested: 5}, nil)
	if summary.Generated != 0 || summary.ByMarket == nil {
		t.Errorf("expected empty initialized summary, got %+v", summary)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	summary := GenerateSummary(Run{ID: "abc", Requested: 3}, testBatch())

	if err := WriteJSON(&buf, summary); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.RunID != "abc" || decoded.Generated != 3 {
		t.Errorf("unexpected decoded summary: %+v", decoded)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	summary := GenerateSummary(Run{ID: "abc", Requested: 3, StoreBefore: 1, StoreAfter: 4}, testBatch())

	if err := WriteText(&buf, summary); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Run:           abc", "Generated:     3 of 3 requested", "Store:         1 -> 4 entries", "USA: 1", "122: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}
