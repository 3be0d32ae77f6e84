package systems

import (
	"log"
	"math/rand"
	"time"

	"github.com/decker502/konfetti/pkg/components"
)

// PartyListener receives party lifecycle events from a PartyManager.
type PartyListener interface {
	// OnPartyStarted is called after a party system was added.
	OnPartyStarted(system *PartySystem, activeSystems int)
	// OnPartyEnded is called after a finished party system was removed.
	OnPartyEnded(system *PartySystem, activeSystems int)
}

// PartyManager runs any number of independent parties on the same draw area
// and removes each one once it is done emitting.
type PartyManager struct {
	systems      []*PartySystem
	pixelDensity float64
	rng          *rand.Rand
	listener     PartyListener

	// 每帧复用的合并结果缓冲
	frame []components.Confetti
}

// NewPartyManager creates a manager. Each started party gets its own random
// source derived from rng; a nil rng is seeded from the current time.
func NewPartyManager(pixelDensity float64, rng *rand.Rand) *PartyManager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PartyManager{
		pixelDensity: pixelDensity,
		rng:          rng,
	}
}

// SetListener registers l for lifecycle events; nil removes it.
func (m *PartyManager) SetListener(l PartyListener) {
	m.listener = l
}

// Start adds one party system per party and returns them.
func (m *PartyManager) Start(parties ...components.Party) []*PartySystem {
	started := make([]*PartySystem, 0, len(parties))
	for _, party := range parties {
		ps := NewPartySystemWithRand(party, m.pixelDensity, rand.New(rand.NewSource(m.rng.Int63())))
		m.systems = append(m.systems, ps)
		started = append(started, ps)

		log.Printf("[PartyManager] Party started: window=%.0fms, msPerParticle=%.2f, active=%d",
			party.Emitter.EmittingTimeMs(), party.Emitter.MsPerParticle(), len(m.systems))
		if m.listener != nil {
			m.listener.OnPartyStarted(ps, len(m.systems))
		}
	}
	return started
}

// Update renders every party for deltaMs and returns all live confetti.
//
// The returned slice is reused by the next Update call.
func (m *PartyManager) Update(deltaMs float64, drawArea components.Rect) []components.Confetti {
	m.frame = m.frame[:0]

	kept := m.systems[:0]
	var ended []*PartySystem
	for _, ps := range m.systems {
		ps.update(deltaMs, drawArea)
		m.frame = ps.particles.AppendTo(m.frame)

		if ps.IsDoneEmitting() {
			ended = append(ended, ps)
			continue
		}
		kept = append(kept, ps)
	}
	for i := len(kept); i < len(m.systems); i++ {
		m.systems[i] = nil
	}
	m.systems = kept

	for _, ps := range ended {
		log.Printf("[PartyManager] Party ended after %.0fms: emitted=%d, active=%d",
			ps.ElapsedTimeMs(), ps.EmittedCount(), len(m.systems))
		if m.listener != nil {
			m.listener.OnPartyEnded(ps, len(m.systems))
		}
	}

	return m.frame
}

// StopGracefully stops confetti creation of every running party. Live confetti
// finish their life and the parties end on their own.
func (m *PartyManager) StopGracefully() {
	for _, ps := range m.systems {
		ps.SetEnabled(false)
	}
}

// Reset drops every party immediately without firing OnPartyEnded.
func (m *PartyManager) Reset() {
	clear(m.systems)
	m.systems = m.systems[:0]
	m.frame = m.frame[:0]
}

// IsActive reports whether any party is still running.
func (m *PartyManager) IsActive() bool {
	return len(m.systems) > 0
}

// ActiveSystems returns the running party systems.
func (m *PartyManager) ActiveSystems() []*PartySystem {
	return append([]*PartySystem(nil), m.systems...)
}

// ActiveParticleAmount returns the number of live confetti over all parties.
func (m *PartyManager) ActiveParticleAmount() int {
	total := 0
	for _, ps := range m.systems {
		total += ps.ActiveParticleAmount()
	}
	return total
}
