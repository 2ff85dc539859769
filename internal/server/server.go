// Package server exposes the beastmaster menu protocol over WebSocket
// with one simulated player per connection. It exists for protocol
// walking against a live engine without a game host attached.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/mistvale/beastmaster/internal/beastmaster"
	"github.com/mistvale/beastmaster/internal/command"
	"github.com/mistvale/beastmaster/internal/config"
	"github.com/mistvale/beastmaster/internal/gossip"
	"github.com/mistvale/beastmaster/internal/logger"
)

// Server drives the engine from WebSocket clients.
type Server struct {
	engine   *beastmaster.Engine
	commands *command.Handler
	nextID   atomic.Int64
}

// New creates a simulator server over an engine. configPath feeds the
// reload command.
func New(engine *beastmaster.Engine, configPath string) *Server {
	s := &Server{engine: engine}
	s.commands = command.NewHandler(engine, hostShim{}, configPath)
	return s
}

// Start listens for WebSocket connections on address.
func (s *Server) Start(address string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	logger.Info("Simulator listening", "address", address)
	return http.ListenAndServe(address, mux)
}

// WebSocketHandler exposes the upgrade endpoint for embedding in tests
// or an existing mux.
func (s *Server) WebSocketHandler() http.HandlerFunc {
	return s.handleUpgrade
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	player := s.newSimPlayer(newWSClient(conn), r)
	go s.handleConnection(player)
}

// newSimPlayer builds a simulated player from the request's query
// parameters: class, race, level, admin, talent.
func (s *Server) newSimPlayer(client *wsClient, r *http.Request) *simPlayer {
	p := &simPlayer{
		client:  client,
		id:      s.nextID.Add(1),
		class:   config.ClassHunter,
		race:    1,
		level:   80,
		spells:  make(map[uint32]bool),
		talents: make(map[uint32]bool),
	}
	p.name = fmt.Sprintf("Sim%d", p.id)

	query := r.URL.Query()
	if v, err := strconv.ParseUint(query.Get("class"), 10, 8); err == nil {
		p.class = uint8(v)
	}
	if v, err := strconv.ParseUint(query.Get("race"), 10, 8); err == nil {
		p.race = uint8(v)
	}
	if v, err := strconv.ParseUint(query.Get("level"), 10, 32); err == nil {
		p.level = uint32(v)
	}
	p.admin = query.Get("admin") == "1"
	if query.Get("talent") == "1" {
		p.talents[beastmaster.SpellBeastMastery] = true
	}
	return p
}

func (s *Server) handleConnection(p *simPlayer) {
	defer func() {
		s.engine.EndSession(p.id)
		p.client.Close()
		logger.Info("Simulator client disconnected", "player", p.id)
	}()

	logger.Info("Simulator client connected", "player", p.id, "remote", p.client.RemoteAddr())
	p.sendEvent("hello", "Send an action code, 'menu', or a chat command (beastmaster, petname ...).")
	if notice := s.commands.LoginNotice(); notice != "" {
		p.sendEvent("notice", notice)
	}

	for {
		line, err := p.client.ReadLine()
		if err != nil {
			return
		}
		s.dispatch(p, line)
	}
}

// dispatch routes one input line: a bare integer is an action code,
// "menu" opens the main menu, everything else runs as a chat command.
func (s *Server) dispatch(p *simPlayer, line string) {
	if code, err := strconv.ParseUint(line, 10, 32); err == nil {
		s.engine.HandleSelect(p, uint32(code))
		return
	}
	if strings.EqualFold(line, "menu") {
		s.engine.ShowMainMenu(p)
		return
	}
	if response := s.commands.Execute(p, command.ParseCommand(line)); response != "" {
		p.sendEvent("response", response)
	}
}

// hostShim satisfies the command host against the simulator: there is no
// world to spawn an NPC into, so a summon is just acknowledged.
type hostShim struct{}

func (hostShim) SummonNpc(p beastmaster.Player, entry uint32) error {
	p.Whisper(fmt.Sprintf("The beastmaster (entry %d) appears before you.", entry))
	return nil
}

func (hostShim) IsPrivileged(p beastmaster.Player) bool {
	sim, ok := p.(*simPlayer)
	return ok && sim.admin
}

// Wire shapes sent to the client.
type menuItemJSON struct {
	Icon   uint8  `json:"icon"`
	Label  string `json:"label"`
	Action uint32 `json:"action"`
}

type menuJSON struct {
	Type   string         `json:"type"`
	TextID uint32         `json:"text_id"`
	Items  []menuItemJSON `json:"items"`
}

type eventJSON struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// simPlayer is one connection's simulated character. It doubles as the
// engine's menu sender so renders land on its own socket.
type simPlayer struct {
	client  *wsClient
	id      int64
	name    string
	class   uint8
	race    uint8
	level   uint32
	admin   bool
	spells  map[uint32]bool
	talents map[uint32]bool
	pet     *simPet
}

type simPet struct {
	name      string
	happiness uint32
}

func (p *simPet) Name() string              { return p.name }
func (p *simPet) SetName(name string)       { p.name = name }
func (p *simPet) SetHappiness(value uint32) { p.happiness = value }

func (p *simPlayer) ID() int64     { return p.id }
func (p *simPlayer) Name() string  { return p.name }
func (p *simPlayer) Class() uint8  { return p.class }
func (p *simPlayer) Race() uint8   { return p.race }
func (p *simPlayer) Level() uint32 { return p.level }

func (p *simPlayer) HasSpell(spell uint32) bool  { return p.spells[spell] }
func (p *simPlayer) HasTalent(spell uint32) bool { return p.talents[spell] }
func (p *simPlayer) LearnSpell(spell uint32)     { p.spells[spell] = true }
func (p *simPlayer) UnlearnSpell(spell uint32)   { delete(p.spells, spell) }

func (p *simPlayer) HasLivePet() bool { return p.pet != nil }

func (p *simPlayer) LivePet() beastmaster.PetHandle {
	if p.pet == nil {
		return nil
	}
	return p.pet
}

func (p *simPlayer) SummonPet(entry uint32, tame bool) (beastmaster.PetHandle, error) {
	p.pet = &simPet{name: fmt.Sprintf("Beast %d", entry)}
	verb := "called"
	if tame {
		verb = "tamed"
	}
	p.sendEvent("pet", fmt.Sprintf("You have %s %s.", verb, p.pet.name))
	return p.pet, nil
}

func (p *simPlayer) Whisper(message string) {
	p.sendEvent("whisper", message)
}

func (p *simPlayer) sendEvent(kind, text string) {
	data, err := json.Marshal(eventJSON{Type: kind, Text: text})
	if err != nil {
		return
	}
	p.client.WriteLine(string(data))
}

func (p *simPlayer) sendMenu(menu gossip.Menu) {
	out := menuJSON{Type: "menu", TextID: menu.TextID}
	for _, item := range menu.Items {
		out.Items = append(out.Items, menuItemJSON{
			Icon:   uint8(item.Icon),
			Label:  item.Label,
			Action: item.Action,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	p.client.WriteLine(string(data))
}

// Sender is the engine-facing menu transport: every render goes to the
// player's own connection.
type Sender struct{}

func (Sender) SendMenu(p beastmaster.Player, menu gossip.Menu) {
	if sim, ok := p.(*simPlayer); ok {
		sim.sendMenu(menu)
	}
}

func (Sender) CloseMenu(p beastmaster.Player) {
	if sim, ok := p.(*simPlayer); ok {
		sim.sendEvent("close", "")
	}
}

func (Sender) ShowVendor(p beastmaster.Player) {
	if sim, ok := p.(*simPlayer); ok {
		sim.sendEvent("vendor", "The beastmaster shows you his wares.")
	}
}

func (Sender) ShowStable(p beastmaster.Player) {
	if sim, ok := p.(*simPlayer); ok {
		sim.sendEvent("stable", "The stable master greets you.")
	}
}

func (Sender) PlaySound(p beastmaster.Player, soundID uint32) {
	if sim, ok := p.(*simPlayer); ok {
		sim.sendEvent("sound", strconv.FormatUint(uint64(soundID), 10))
	}
}
