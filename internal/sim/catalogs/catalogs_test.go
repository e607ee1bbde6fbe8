package catalogs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

func loadShipped(t *testing.T) (*Catalogs, string) {
	t.Helper()
	root := findRepoRoot(t)
	dir := filepath.Join(root, "configs")
	cats, err := Load(dir)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats, root
}

func TestLoad_DigestsPresent(t *testing.T) {
	cats, _ := loadShipped(t)
	for name, digest := range map[string]string{
		"jobs":      cats.Jobs.Digest,
		"degrees":   cats.Degrees.Digest,
		"dungeons":  cats.Dungeons.Digest,
		"quests":    cats.Quests.Digest,
		"items":     cats.Items.Digest,
		"stocks":    cats.Stocks.Digest,
		"hexes":     cats.Hexes.Digest,
		"festivals": cats.Festivals.Digest,
		"locations": cats.Locations.Digest,
	} {
		if len(digest) != 64 {
			t.Fatalf("%s digest not a sha256 hex: %q", name, digest)
		}
	}
}

// Every id one catalog references in another must resolve, and every
// location the code hardwires must exist on the ring.
func TestLoad_CrossReferences(t *testing.T) {
	cats, _ := loadShipped(t)

	for _, id := range []string{
		"plaza", "market", "bank", "academy", "guild", "dungeon",
		"exchange", "healer", "pawnshop", "mage", "landlord", "tavern",
	} {
		if _, ok := cats.Locations.ByID[id]; !ok {
			t.Fatalf("location %s missing", id)
		}
	}
	if len(cats.Locations.IDs) != RingSize {
		t.Fatalf("ring must hold %d locations, got %d", RingSize, len(cats.Locations.IDs))
	}
	seen := map[int]string{}
	for id, def := range cats.Locations.ByID {
		if other, dup := seen[def.Pos]; dup {
			t.Fatalf("locations %s and %s share ring pos %d", id, other, def.Pos)
		}
		seen[def.Pos] = id
	}

	for id, job := range cats.Jobs.ByID {
		if _, ok := cats.Locations.ByID[job.Location]; !ok {
			t.Fatalf("job %s at unknown location %s", id, job.Location)
		}
		for _, d := range job.RequiredDegrees {
			if _, ok := cats.Degrees.ByID[d]; !ok {
				t.Fatalf("job %s requires unknown degree %s", id, d)
			}
		}
	}
	for id, deg := range cats.Degrees.ByID {
		for _, pre := range deg.Prereqs {
			if _, ok := cats.Degrees.ByID[pre]; !ok {
				t.Fatalf("degree %s has unknown prereq %s", id, pre)
			}
		}
	}
	for id, item := range cats.Items.ByID {
		if _, ok := cats.Locations.ByID[item.Shop]; !ok {
			t.Fatalf("item %s sold at unknown location %s", id, item.Shop)
		}
	}
	for id, q := range cats.Quests.ByID {
		if q.NextStage == "" {
			continue
		}
		next, ok := cats.Quests.ByID[q.NextStage]
		if !ok {
			t.Fatalf("quest %s chains to unknown stage %s", id, q.NextStage)
		}
		if next.Kind != "chain" {
			t.Fatalf("quest %s chains to non-chain %s", id, q.NextStage)
		}
	}
	for _, floor := range cats.Dungeons.Floors {
		if floor > 1 {
			if _, ok := cats.Dungeons.ByFloor[floor-1]; !ok {
				t.Fatalf("dungeon floor %d has no floor below it", floor)
			}
		}
	}
	for id, h := range cats.Hexes.ByID {
		if h.Target != "location" && h.Target != "player" {
			t.Fatalf("hex %s has bad target kind %q", id, h.Target)
		}
		if h.DropOnly && h.BasePrice != 0 {
			t.Fatalf("drop-only hex %s must have base price 0", id)
		}
	}
}

func TestLoad_ShippedConfigsMatchSchemas(t *testing.T) {
	_, root := loadShipped(t)
	for file, schema := range map[string]string{
		"jobs.json":      "jobs.schema.json",
		"items.json":     "items.schema.json",
		"locations.json": "locations.schema.json",
	} {
		s, err := jsonschema.Compile(filepath.Join(root, "schemas", schema))
		if err != nil {
			t.Fatalf("compile %s: %v", schema, err)
		}
		raw, err := os.ReadFile(filepath.Join(root, "configs", file))
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("parse %s: %v", file, err)
		}
		if err := s.Validate(v); err != nil {
			t.Fatalf("%s does not match %s: %v", file, schema, err)
		}
	}
}

func TestTravelSteps_RingDistance(t *testing.T) {
	cats, _ := loadShipped(t)
	// plaza pos 0, tavern pos 11: one step the short way round.
	if got := cats.Locations.TravelSteps("plaza", "tavern"); got != 1 {
		t.Fatalf("plaza->tavern: got %d, want 1", got)
	}
	if got := cats.Locations.TravelSteps("plaza", "exchange"); got != 6 {
		t.Fatalf("plaza->exchange: got %d, want 6", got)
	}
	if got := cats.Locations.TravelSteps("bank", "bank"); got != 0 {
		t.Fatalf("same location: got %d, want 0", got)
	}
}

func TestActiveFestival_Schedule(t *testing.T) {
	cats, _ := loadShipped(t)
	if f := cats.ActiveFestival(1); f != nil {
		t.Fatalf("week 1 should be quiet, got %s", f.ID)
	}
	f := cats.ActiveFestival(3)
	if f == nil || f.ID != "harvest_fair" {
		t.Fatalf("week 3 should be the harvest fair, got %+v", f)
	}
	f = cats.ActiveFestival(11)
	if f == nil || f.ID != "harvest_fair" {
		t.Fatalf("week 11 should repeat the harvest fair, got %+v", f)
	}
}
