package world

import "github.com/pixil98/go-coop/internal/protocol"

const defaultDifficulty = 6

// Player is the local player character.
type Player struct {
	difficulty    int32
	greetDistance float32
	bleedingOut   bool
	health        float32
	godMode       bool
	gold          int32
	level         uint16
	waypoint      *protocol.Vec3
	inParty       bool
	partyLeader   bool

	Respawns   int
	Knockdowns int
}

func newPlayer() *Player {
	return &Player{
		difficulty:    defaultDifficulty,
		greetDistance: 150,
		health:        100,
		gold:          100,
		level:         1,
	}
}

func (p *Player) Difficulty() int32          { return p.difficulty }
func (p *Player) SetDifficulty(d int32)      { p.difficulty = d }
func (p *Player) GreetDistance() float32     { return p.greetDistance }
func (p *Player) SetGreetDistance(d float32) { p.greetDistance = d }
func (p *Player) IsBleedingOut() bool        { return p.bleedingOut }
func (p *Player) Health() float32            { return p.health }
func (p *Player) GodMode() bool              { return p.godMode }
func (p *Player) SetGodMode(on bool)         { p.godMode = on }
func (p *Player) Gold() int32                { return p.gold }
func (p *Player) Level() uint16              { return p.level }
func (p *Player) SetLevel(l uint16)          { p.level = l }
func (p *Player) InParty() bool              { return p.inParty }
func (p *Player) IsLeader() bool             { return p.inParty && p.partyLeader }

// SetParty records the player's party membership. A player outside a party is never
// its leader.
func (p *Player) SetParty(member, leader bool) {
	p.inParty = member
	p.partyLeader = member && leader
}

// SetBleedingOut puts the player into or out of the bleedout state.
func (p *Player) SetBleedingOut(on bool) {
	p.bleedingOut = on
}

// PrepareRespawn zeroes health so the respawn can lift the bleedout state.
func (p *Player) PrepareRespawn() {
	p.health = 0
}

func (p *Player) Respawn() {
	p.bleedingOut = false
	p.health = 100
	p.Respawns++
}

func (p *Player) Knockdown() {
	p.Knockdowns++
}

func (p *Player) PayGold(amount int32) {
	p.gold -= amount
	if p.gold < 0 {
		p.gold = 0
	}
}

func (p *Player) SetWaypoint(pos protocol.Vec3) {
	p.waypoint = &pos
}

func (p *Player) RemoveWaypoint() {
	p.waypoint = nil
}

func (p *Player) Waypoint() (protocol.Vec3, bool) {
	if p.waypoint == nil {
		return protocol.Vec3{}, false
	}
	return *p.waypoint, true
}
