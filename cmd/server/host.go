package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"guildlife.ai/internal/ai"
	"guildlife.ai/internal/persistence/indexdb"
	"guildlife.ai/internal/protocol"
	"guildlife.ai/internal/sim/world"
	"guildlife.ai/internal/transport/ws"
)

// gameHost owns the authoritative Game. Everything that touches it,
// joins, leaves, guest actions and AI turns, flows through one loop
// goroutine so the sim never needs a lock.
type gameHost struct {
	game   *world.Game
	engine *ai.Engine
	log    *log.Logger
	idx    *indexdb.SQLiteIndex

	roomCode   string
	maxPlayers int
	nextGuest  int

	inbox   chan ws.GuestAction
	joinCh  chan joinReq
	leaveCh chan string

	conns map[string]chan []byte

	// read by the metrics handler outside the loop
	statWeek    atomic.Int64
	statClients atomic.Int64
}

// HostStats is a race-free snapshot for the metrics endpoint.
type HostStats struct {
	Week    int64
	Clients int64
}

func (h *gameHost) Stats() HostStats {
	return HostStats{Week: h.statWeek.Load(), Clients: h.statClients.Load()}
}

type joinReq struct {
	roomCode string
	name     string
	out      chan []byte
	reply    chan joinReply
}

type joinReply struct {
	playerID string
	errCode  string
}

func newGameHost(g *world.Game, eng *ai.Engine, idx *indexdb.SQLiteIndex, roomCode string, maxPlayers int, logger *log.Logger) *gameHost {
	return &gameHost{
		game:       g,
		engine:     eng,
		log:        logger,
		idx:        idx,
		roomCode:   roomCode,
		maxPlayers: maxPlayers,
		inbox:      make(chan ws.GuestAction, 256),
		joinCh:     make(chan joinReq),
		leaveCh:    make(chan string, 16),
		conns:      map[string]chan []byte{},
	}
}

func (h *gameHost) Inbox() chan<- ws.GuestAction { return h.inbox }

func (h *gameHost) Join(roomCode, playerName string, out chan []byte) (string, string) {
	reply := make(chan joinReply, 1)
	h.joinCh <- joinReq{roomCode: roomCode, name: playerName, out: out, reply: reply}
	r := <-reply
	return r.playerID, r.errCode
}

func (h *gameHost) Leave(playerID string) {
	h.leaveCh <- playerID
}

// Run is the host loop. It drains joins, leaves and guest actions,
// applies them, and plays AI turns whenever the turn order lands on
// an AI player.
func (h *gameHost) Run(ctx context.Context) {
	h.playAITurns()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.joinCh:
			req.reply <- h.handleJoin(req)
		case pid := <-h.leaveCh:
			h.handleLeave(pid)
		case act := <-h.inbox:
			h.handleAction(act)
		}
	}
}

func (h *gameHost) handleJoin(req joinReq) joinReply {
	if req.roomCode != h.roomCode {
		return joinReply{errCode: protocol.ErrRoomNotFound}
	}
	humans := 0
	for _, p := range h.game.Players {
		if !p.IsAI {
			humans++
		}
	}
	if humans >= h.maxPlayers {
		return joinReply{errCode: protocol.ErrRoomFull}
	}

	h.nextGuest++
	id := fmt.Sprintf("guest_%d", h.nextGuest)
	p := world.NewPlayer(id, req.name, false)
	h.game.AddPlayer(p)
	h.conns[id] = req.out
	h.statClients.Store(int64(len(h.conns)))

	welcome, _ := json.Marshal(protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        id,
		GameID:          h.game.ID,
		Week:            h.game.Week,
		CatalogDigests:  catalogDigests(h.game),
	})
	h.send(id, welcome)
	h.afterAdvance()
	h.log.Printf("join player=%s name=%q humans=%d", id, req.name, humans+1)
	return joinReply{playerID: id}
}

func (h *gameHost) handleLeave(playerID string) {
	if _, ok := h.conns[playerID]; !ok {
		return
	}
	delete(h.conns, playerID)
	h.statClients.Store(int64(len(h.conns)))
	h.log.Printf("leave player=%s", playerID)
	// The player record stays in the game; a reconnect feature would
	// reuse it. If it was their turn, end it so the table keeps moving.
	if cur := h.game.CurrentPlayer(); cur != nil && cur.ID == playerID {
		_ = h.game.EndTurn(playerID)
		h.afterAdvance()
	}
}

// actionPayload is the union of every guest action's parameters;
// each action reads only the fields it needs.
type actionPayload struct {
	Location string  `json:"location,omitempty"`
	JobID    string  `json:"job_id,omitempty"`
	DegreeID string  `json:"degree_id,omitempty"`
	ItemID   string  `json:"item_id,omitempty"`
	Qty      int     `json:"qty,omitempty"`
	Amount   int     `json:"amount,omitempty"`
	Tier     int     `json:"tier,omitempty"`
	StockID  string  `json:"stock_id,omitempty"`
	Shares   int     `json:"shares,omitempty"`
	QuestID  string  `json:"quest_id,omitempty"`
	Floor    int     `json:"floor,omitempty"`
	HexID    string  `json:"hex_id,omitempty"`
	Target   string  `json:"target,omitempty"`
	Hours    float64 `json:"hours,omitempty"`
}

func (h *gameHost) handleAction(act ws.GuestAction) {
	if _, ok := h.conns[act.PlayerID]; !ok {
		return
	}
	var pay actionPayload
	if len(act.Msg.Payload) > 0 {
		if err := json.Unmarshal(act.Msg.Payload, &pay); err != nil {
			h.sendResult(act.PlayerID, act.Msg.Action, protocol.ErrProtoBadRequest, err.Error())
			return
		}
	}

	cur := h.game.CurrentPlayer()
	if cur == nil || cur.ID != act.PlayerID {
		h.sendResult(act.PlayerID, act.Msg.Action, protocol.ErrNotYourTurn, "wait for your turn")
		return
	}

	err := h.apply(act.PlayerID, act.Msg.Action, pay)
	if err != nil {
		h.sendResult(act.PlayerID, act.Msg.Action, errCode(err), err.Error())
		return
	}
	h.sendResult(act.PlayerID, act.Msg.Action, "", "")
	h.broadcastState()
	if act.Msg.Action == "end_turn" {
		h.afterAdvance()
	}
}

// apply dispatches a named guest action into the same mutation API
// the AI executor uses. The Game re-validates everything.
func (h *gameHost) apply(pid, action string, p actionPayload) error {
	g := h.game
	switch action {
	case "move":
		return g.MovePlayer(pid, p.Location)
	case "work":
		return g.WorkShift(pid, p.Hours)
	case "apply_job":
		return g.SetJob(pid, p.JobID)
	case "request_raise":
		return g.RequestRaise(pid)
	case "study":
		return g.StudySession(pid, p.DegreeID)
	case "graduate":
		return g.Graduate(pid, p.DegreeID)
	case "pay_rent":
		return g.PayRent(pid)
	case "set_housing":
		return g.SetHousing(pid, p.Tier)
	case "deposit":
		return g.Deposit(pid, p.Amount)
	case "withdraw":
		return g.Withdraw(pid, p.Amount)
	case "take_loan":
		return g.TakeLoan(pid, p.Amount)
	case "repay_loan":
		return g.RepayLoan(pid, p.Amount)
	case "buy_item":
		return g.BuyItem(pid, p.ItemID, p.Qty)
	case "sell_item":
		return g.SellItem(pid, p.ItemID, p.Qty)
	case "buy_stock":
		return g.BuyStock(pid, p.StockID, p.Shares)
	case "sell_stock":
		return g.SellStock(pid, p.StockID, p.Shares)
	case "buy_guild_pass":
		return g.BuyGuildPass(pid)
	case "take_quest":
		return g.TakeQuest(pid, p.QuestID)
	case "complete_quest":
		return g.CompleteQuest(pid)
	case "explore_dungeon":
		return g.ExploreDungeon(pid, p.Floor)
	case "cast_hex":
		return g.CastHex(pid, p.HexID, p.Target)
	case "cure_sickness":
		return g.CureSickness(pid)
	case "rest":
		return g.Rest(pid, p.Hours)
	case "attend_festival":
		return g.AttendFestival(pid, p.Hours)
	case "end_turn":
		return g.EndTurn(pid)
	default:
		return fmt.Errorf("%w: unknown action %q", world.ErrBadTarget, action)
	}
}

// afterAdvance runs whenever the turn order moved: plays any AI turns
// until a human (or nobody) holds the turn, then announces it.
func (h *gameHost) afterAdvance() {
	h.playAITurns()
	h.broadcastState()
	h.announceTurn()
}

func (h *gameHost) playAITurns() {
	for {
		// A table of only AI players would advance weeks forever;
		// hold the turn until a human is seated.
		if len(h.conns) == 0 {
			return
		}
		cur := h.game.CurrentPlayer()
		if cur == nil || !cur.IsAI {
			return
		}
		week := h.game.Week
		report := h.engine.RunTurn(h.game, cur.ID)
		h.log.Printf("ai turn player=%s week=%d cycles=%d failed=%d", cur.ID, week, report.Cycles, report.Failed)
		h.recordStandings(week)
		h.broadcastState()
		// RunTurn ends with EndTurn; if nothing changed we are wedged
		// and must not spin.
		if next := h.game.CurrentPlayer(); next != nil && next.ID == cur.ID && h.game.Week == week {
			return
		}
	}
}

func (h *gameHost) recordStandings(week int) {
	if h.idx == nil {
		return
	}
	for _, id := range h.game.Order {
		p := h.game.Players[id]
		gp := ai.CalculateGoalProgress(p, h.game.Goals, h.game.StockPrices)
		h.idx.RecordStanding(indexdb.Standing{
			GameID:   h.game.ID,
			Week:     week,
			PlayerID: id,
			IsAI:     p.IsAI,
			Overall:  gp.Overall,
			NetWorth: p.NetWorth(),
		})
	}
}

// gameState is the broadcast snapshot. Guests render it and nothing
// else; hexes are filtered per viewer elsewhere if a UI wants that.
type gameState struct {
	GameID      string                   `json:"game_id"`
	Week        int                      `json:"week"`
	Goals       world.Goals              `json:"goals"`
	Players     map[string]*world.Player `json:"players"`
	Order       []string                 `json:"order"`
	StockPrices map[string]int           `json:"stock_prices"`
	FestivalID  string                   `json:"festival_id,omitempty"`
	Hexes       []*world.Hex             `json:"hexes,omitempty"`
}

func (h *gameHost) broadcastState() {
	h.statWeek.Store(int64(h.game.Week))
	cur := ""
	if p := h.game.CurrentPlayer(); p != nil {
		cur = p.ID
	}
	raw, err := json.Marshal(gameState{
		GameID:      h.game.ID,
		Week:        h.game.Week,
		Goals:       h.game.Goals,
		Players:     h.game.Players,
		Order:       h.game.Order,
		StockPrices: h.game.StockPrices,
		FestivalID:  h.game.FestivalID,
		Hexes:       h.game.Hexes,
	})
	if err != nil {
		h.log.Printf("marshal state: %v", err)
		return
	}
	b, _ := json.Marshal(protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Week:            h.game.Week,
		CurrentPlayer:   cur,
		State:           raw,
	})
	for id := range h.conns {
		h.send(id, b)
	}
}

func (h *gameHost) announceTurn() {
	cur := h.game.CurrentPlayer()
	if cur == nil {
		return
	}
	b, _ := json.Marshal(protocol.TurnMsg{
		Type:            protocol.TypeTurn,
		ProtocolVersion: protocol.Version,
		Week:            h.game.Week,
		PlayerID:        cur.ID,
		IsAI:            cur.IsAI,
	})
	for id := range h.conns {
		h.send(id, b)
	}
}

func (h *gameHost) sendResult(playerID, action, code, msg string) {
	b, _ := json.Marshal(protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		PlayerID:        playerID,
		Action:          action,
		OK:              code == "",
		ErrorCode:       code,
		Message:         msg,
	})
	h.send(playerID, b)
}

// send never blocks the host loop; a slow guest loses frames, not the
// table.
func (h *gameHost) send(playerID string, b []byte) {
	ch, ok := h.conns[playerID]
	if !ok {
		return
	}
	select {
	case ch <- b:
	default:
	}
}

func errCode(err error) string {
	switch {
	case errors.Is(err, world.ErrNoGold):
		return protocol.ErrNoGold
	case errors.Is(err, world.ErrNoTime):
		return protocol.ErrNoTime
	case errors.Is(err, world.ErrBadTarget):
		return protocol.ErrBadTarget
	case errors.Is(err, world.ErrNotAllowed), errors.Is(err, world.ErrHexActive):
		return protocol.ErrNotAllowed
	case errors.Is(err, world.ErrNoPlayer):
		return protocol.ErrBadRequest
	default:
		return protocol.ErrInternal
	}
}

func catalogDigests(g *world.Game) map[string]string {
	c := g.Catalogs()
	return map[string]string{
		"jobs":      c.Jobs.Digest,
		"degrees":   c.Degrees.Digest,
		"dungeons":  c.Dungeons.Digest,
		"quests":    c.Quests.Digest,
		"items":     c.Items.Digest,
		"stocks":    c.Stocks.Digest,
		"hexes":     c.Hexes.Digest,
		"festivals": c.Festivals.Digest,
		"locations": c.Locations.Digest,
	}
}
