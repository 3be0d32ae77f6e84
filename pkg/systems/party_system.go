package systems

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/decker502/konfetti/pkg/components"
)

// PartySystem runs one confetti party: it decides each frame how many confetti
// to create, ages every live confetti and reports when the party is over.
//
// Per frame (Render):
//  1. Accumulate the elapsed time
//  2. Create the confetti owed by the emitter, pre-aged by the part of the frame
//     after their ideal creation instant (only while enabled)
//  3. Advance the confetti that already existed and drop dead ones
//  4. Return a snapshot of the live confetti
//
// A PartySystem is not safe for concurrent use; each party owns its state.
type PartySystem struct {
	party        components.Party
	pixelDensity float64
	rng          *rand.Rand

	enabled       bool
	elapsedTimeMs float64
	emittedCount  int

	particles *ConfettiPopulation
}

// NewPartySystem creates a party system seeded from the current time.
// pixelDensity scales confetti size, speed and gravity; values <= 0 mean 1.
func NewPartySystem(party components.Party, pixelDensity float64) *PartySystem {
	return NewPartySystemWithRand(party, pixelDensity, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPartySystemWithRand creates a party system that draws every random seed
// value from rng. rng must not be shared with another party system.
func NewPartySystemWithRand(party components.Party, pixelDensity float64, rng *rand.Rand) *PartySystem {
	if pixelDensity <= 0 {
		pixelDensity = 1
	}

	capacity := 0
	if party.Emitter.MaxCount() > 0 {
		capacity = party.Emitter.MaxCount()
	}

	if !party.Emitter.CanEmit() {
		log.Printf("[PartySystem] Warning: emitter never emits (window=%.1fms, msPerParticle=%.2f)",
			party.Emitter.EmittingTimeMs(), party.Emitter.MsPerParticle())
	}

	return &PartySystem{
		party:        party,
		pixelDensity: pixelDensity,
		rng:          rng,
		enabled:      true,
		particles:    NewConfettiPopulation(capacity),
	}
}

// Render advances the party by deltaTimeMs and returns the confetti alive in
// drawArea afterwards.
//
// Negative or non-finite deltas are treated as 0 so the elapsed time never
// goes backwards.
func (ps *PartySystem) Render(deltaTimeMs float64, drawArea components.Rect) []components.Confetti {
	ps.update(deltaTimeMs, drawArea)
	return ps.particles.Snapshot()
}

func (ps *PartySystem) update(deltaTimeMs float64, drawArea components.Rect) {
	if !(deltaTimeMs > 0) || math.IsInf(deltaTimeMs, 1) {
		deltaTimeMs = 0
	}

	previousElapsed := ps.elapsedTimeMs
	ps.elapsedTimeMs += deltaTimeMs

	// 先计算本帧需要创建的粒子（只依赖帧开始时的状态）
	var ages []float64
	if ps.enabled {
		ages = ps.party.Emitter.Schedule(previousElapsed, deltaTimeMs, ps.emittedCount)
		ps.emittedCount += len(ages)
	}

	// 已有粒子推进整帧；新粒子已经在创建时预老化，不再推进
	ps.particles.Advance(deltaTimeMs, drawArea)

	for _, age := range ages {
		x, y := spawnPoint(ps.party.Position, drawArea, ps.rng)
		c := newConfetti(&ps.party, ps.pixelDensity, ps.rng, x, y)
		stepConfetti(&c, age)
		ps.particles.Add(c, drawArea)
	}
}

// IsDoneEmitting reports whether the emission window is over and no confetti
// is left. Once true it stays true.
func (ps *PartySystem) IsDoneEmitting() bool {
	return ps.elapsedTimeMs >= ps.party.Emitter.EmittingTimeMs() && ps.particles.Len() == 0
}

// Enabled reports whether the party still creates new confetti.
func (ps *PartySystem) Enabled() bool {
	return ps.enabled
}

// SetEnabled toggles confetti creation from the next Render on. Live confetti
// keep aging either way.
func (ps *PartySystem) SetEnabled(enabled bool) {
	ps.enabled = enabled
}

// ActiveParticleAmount returns the number of live confetti.
func (ps *PartySystem) ActiveParticleAmount() int {
	return ps.particles.Len()
}

// ElapsedTimeMs returns the time rendered since the first Render call.
func (ps *PartySystem) ElapsedTimeMs() float64 {
	return ps.elapsedTimeMs
}

// EmittedCount returns the number of confetti created so far.
func (ps *PartySystem) EmittedCount() int {
	return ps.emittedCount
}

// Party returns the party this system runs.
func (ps *PartySystem) Party() components.Party {
	return ps.party
}
