package systems

import "github.com/decker502/konfetti/pkg/components"

// ConfettiPopulation is the unordered set of live confetti of one party.
//
// Confetti are stored densely and removed with swap-remove during the sweep,
// so insertion order is not preserved.
type ConfettiPopulation struct {
	confetti []components.Confetti
}

// NewConfettiPopulation creates an empty population with room for capacity confetti.
func NewConfettiPopulation(capacity int) *ConfettiPopulation {
	return &ConfettiPopulation{
		confetti: make([]components.Confetti, 0, capacity),
	}
}

// Advance ages every confetti by dtMs and drops the ones that died or left vp.
// A dropped confetti is never advanced again.
func (p *ConfettiPopulation) Advance(dtMs float64, vp components.Rect) {
	for i := 0; i < len(p.confetti); {
		c := &p.confetti[i]
		stepConfetti(c, dtMs)
		if !isConfettiAlive(c, vp) {
			// swap-remove：末尾元素移到当前位置，且尚未被推进，继续处理同一下标
			last := len(p.confetti) - 1
			p.confetti[i] = p.confetti[last]
			p.confetti[last] = components.Confetti{}
			p.confetti = p.confetti[:last]
			continue
		}
		i++
	}
}

// Add inserts a confetti that is already at its post-frame age. It is
// discarded instead when it is not alive inside vp; Add reports which happened.
func (p *ConfettiPopulation) Add(c components.Confetti, vp components.Rect) bool {
	if !isConfettiAlive(&c, vp) {
		return false
	}
	p.confetti = append(p.confetti, c)
	return true
}

// Len returns the number of live confetti.
func (p *ConfettiPopulation) Len() int {
	return len(p.confetti)
}

// Snapshot returns a copy of the live confetti.
func (p *ConfettiPopulation) Snapshot() []components.Confetti {
	return p.AppendTo(make([]components.Confetti, 0, len(p.confetti)))
}

// AppendTo appends a copy of the live confetti to dst.
func (p *ConfettiPopulation) AppendTo(dst []components.Confetti) []components.Confetti {
	return append(dst, p.confetti...)
}

// Clear drops every confetti and keeps the allocated storage.
func (p *ConfettiPopulation) Clear() {
	clear(p.confetti)
	p.confetti = p.confetti[:0]
}
