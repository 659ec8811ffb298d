package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/openmkt/campaign-export/pkg/export"
)

func TestFileResult_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	sink := NewFileResult(path)

	doc := &export.Document{
		Summary: export.RunSummary{
			TotalFetched: 2,
			TotalKept:    1,
		},
	}

	if err := sink.Persist(context.Background(), doc); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result file: %v", err)
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Result file is not valid JSON: %v", err)
	}
	if _, ok := parsed["summary"]; !ok {
		t.Error("summary key missing from result file")
	}
	if _, ok := parsed["campaigns"]; !ok {
		t.Error("campaigns key missing from result file")
	}
}

func TestFileResult_Persist_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "result.json")
	sink := NewFileResult(path)

	if err := sink.Persist(context.Background(), &export.Document{}); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Result file not created: %v", err)
	}
}

func TestFileResult_Persist_NilDocument(t *testing.T) {
	sink := NewFileResult(filepath.Join(t.TempDir(), "result.json"))

	if err := sink.Persist(context.Background(), nil); err == nil {
		t.Error("Persist with nil document should return error")
	}
}

func TestFileResult_Persist_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	sink := NewFileResult(path)
	ctx := context.Background()

	if err := sink.Persist(ctx, &export.Document{Summary: export.RunSummary{TotalFetched: 1}}); err != nil {
		t.Fatalf("First persist failed: %v", err)
	}
	if err := sink.Persist(ctx, &export.Document{Summary: export.RunSummary{TotalFetched: 2}}); err != nil {
		t.Fatalf("Second persist failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result file: %v", err)
	}

	var doc export.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Result file is not valid JSON: %v", err)
	}
	if doc.Summary.TotalFetched != 2 {
		t.Errorf("TotalFetched = %d, want 2 (last run wins)", doc.Summary.TotalFetched)
	}
}
