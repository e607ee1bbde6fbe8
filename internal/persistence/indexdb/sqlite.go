package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"guildlife.ai/internal/ai"
	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
)

// SQLiteIndex is a queryable secondary index over the decision history
// of a host. The JSONL decision logs remain the source of truth; this
// store exists so tools can ask "what did Grimwald do in week 30"
// without replaying compressed logs.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqDecision reqKind = iota + 1
	reqStanding
)

type req struct {
	kind reqKind

	decision ai.DecisionEntry
	standing standingRow
}

type standingRow struct {
	GameID   string
	Week     int
	PlayerID string
	IsAI     bool
	Overall  float64
	NetWorth int
	RawJSON  string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// High buffer: a hard-AI turn can report dozens of cycles in a
		// burst and the writer must never stall the engine.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	// NORMAL is a decent durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS decisions (
			game_id TEXT NOT NULL,
			week INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			action TEXT NOT NULL,
			location TEXT,
			priority REAL NOT NULL,
			success INTEGER NOT NULL,
			candidates INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (game_id, week, player_id, cycle)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_player_week ON decisions(player_id, week);`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_action ON decisions(action);`,
		`CREATE TABLE IF NOT EXISTS standings (
			game_id TEXT NOT NULL,
			week INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			is_ai INTEGER NOT NULL,
			overall REAL NOT NULL,
			net_worth INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (game_id, week, player_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_standings_week ON standings(game_id, week);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordDecision implements ai.DecisionSink. Entries are queued to a
// single writer goroutine; if the indexer falls behind the entry is
// dropped, the JSONL decision log remains the source of truth.
func (s *SQLiteIndex) RecordDecision(e ai.DecisionEntry) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqDecision, decision: e}:
	default:
	}
}

// Standing is one player's end-of-week scoreboard row, recorded by the
// host so the difficulty history survives restarts and can be graphed.
type Standing struct {
	GameID   string  `json:"game_id"`
	Week     int     `json:"week"`
	PlayerID string  `json:"player_id"`
	IsAI     bool    `json:"is_ai"`
	Overall  float64 `json:"overall"`
	NetWorth int     `json:"net_worth"`
}

func (s *SQLiteIndex) RecordStanding(st Standing) {
	if s == nil || s.closed.Load() {
		return
	}
	b, _ := json.Marshal(st)
	r := standingRow{
		GameID:   st.GameID,
		Week:     st.Week,
		PlayerID: st.PlayerID,
		IsAI:     st.IsAI,
		Overall:  st.Overall,
		NetWorth: st.NetWorth,
		RawJSON:  string(b),
	}
	select {
	case s.ch <- req{kind: reqStanding, standing: r}:
	default:
	}
}

// UpsertCatalogs stores the raw catalog files and their digests so an
// archived db is self-describing about the rules it was played under.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	raw := map[string][]byte{}
	read := func(name, file string) {
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil {
			return
		}
		raw[name] = b
	}
	if configDir != "" {
		read("jobs", "jobs.json")
		read("degrees", "degrees.json")
		read("dungeons", "dungeons.json")
		read("quests", "quests.json")
		read("items", "items.json")
		read("stocks", "stocks.json")
		read("hexes", "hexes.json")
		read("festivals", "festivals.json")
		read("locations", "locations.json")
	}

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	rows := []kv{
		{name: "jobs", digest: cats.Jobs.Digest, json: raw["jobs"]},
		{name: "degrees", digest: cats.Degrees.Digest, json: raw["degrees"]},
		{name: "dungeons", digest: cats.Dungeons.Digest, json: raw["dungeons"]},
		{name: "quests", digest: cats.Quests.Digest, json: raw["quests"]},
		{name: "items", digest: cats.Items.Digest, json: raw["items"]},
		{name: "stocks", digest: cats.Stocks.Digest, json: raw["stocks"]},
		{name: "hexes", digest: cats.Hexes.Digest, json: raw["hexes"]},
		{name: "festivals", digest: cats.Festivals.Digest, json: raw["festivals"]},
		{name: "locations", digest: cats.Locations.Digest, json: raw["locations"]},
	}

	// Tuning: store the values we actually apply (canonical JSON).
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	insertDecision, _ := s.db.Prepare(`INSERT OR REPLACE INTO decisions(game_id,week,player_id,cycle,action,location,priority,success,candidates,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	insertStanding, _ := s.db.Prepare(`INSERT OR REPLACE INTO standings(game_id,week,player_id,is_ai,overall,net_worth,raw_json) VALUES(?,?,?,?,?,?,?)`)
	defer func() {
		if insertDecision != nil {
			_ = insertDecision.Close()
		}
		if insertStanding != nil {
			_ = insertStanding.Close()
		}
	}()

	for r := range s.ch {
		switch r.kind {
		case reqDecision:
			if insertDecision == nil {
				continue
			}
			e := r.decision
			b, _ := json.Marshal(e)
			_, _ = insertDecision.Exec(e.GameID, e.Week, e.PlayerID, e.Cycle, e.Action, e.Location, e.Priority, boolInt(e.Success), e.Candidates, string(b))
		case reqStanding:
			if insertStanding == nil {
				continue
			}
			st := r.standing
			_, _ = insertStanding.Exec(st.GameID, st.Week, st.PlayerID, boolInt(st.IsAI), st.Overall, st.NetWorth, st.RawJSON)
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
