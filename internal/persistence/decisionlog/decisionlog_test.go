package decisionlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"guildlife.ai/internal/ai"
)

func readEntries(t *testing.T, dir string) []ai.DecisionEntry {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "decisions", "decisions-*.jsonl.zst"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no decision log files: %v %v", matches, err)
	}
	var out []ai.DecisionEntry
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		sc := bufio.NewScanner(dec)
		for sc.Scan() {
			var e ai.DecisionEntry
			if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
				t.Fatalf("bad line %q: %v", sc.Text(), err)
			}
			out = append(out, e)
		}
		dec.Close()
		_ = f.Close()
	}
	return out
}

func TestDecisionLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewDecisionLogger(dir)

	for cycle := 0; cycle < 3; cycle++ {
		l.RecordDecision(ai.DecisionEntry{
			GameID:   "g1",
			Week:     4,
			PlayerID: "ai_1",
			Cycle:    cycle,
			Action:   "work",
			Priority: 55,
			Success:  true,
		})
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries := readEntries(t, dir)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[2].Cycle != 2 || entries[2].Action != "work" || !entries[2].Success {
		t.Fatalf("last entry mangled: %+v", entries[2])
	}
}

func TestJSONLZstdWriter_AppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	w := NewJSONLZstdWriter(dir, "events")
	if err := w.Write(map[string]int{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w = NewJSONLZstdWriter(dir, "events")
	if err := w.Write(map[string]int{"n": 2}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "events-*.jsonl.zst"))
	if len(matches) == 0 {
		t.Fatalf("no event files written")
	}
	lines := 0
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		sc := bufio.NewScanner(dec)
		for sc.Scan() {
			lines++
		}
		dec.Close()
		_ = f.Close()
	}
	if lines != 2 {
		t.Fatalf("reopened writer lost data: %d lines", lines)
	}
}
