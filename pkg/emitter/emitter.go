// Package emitter converts an emission intent ("N confetti over a duration" or
// "N confetti per second") into the cadence used by the party system.
//
// 发射配置是不可变值：只能通过 Emitter.Max 或 Emitter.PerSecond 构造，
// 构造完成后不会再被修改。
package emitter

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidEmissionConfig is returned when an emitter is configured with a
// non-positive count, rate or a negative duration.
var ErrInvalidEmissionConfig = errors.New("invalid emission config")

// countEpsilon 吸收浮点误差，避免 100/(100/3) 这类计算得到 2.9999999 而少发一个粒子
const countEpsilon = 1e-9

// Emitter holds the window during which confetti may be created.
type Emitter struct {
	Duration time.Duration
}

// EmitterConfig is the normalized emission rate of a party.
//
// The zero value never emits.
type EmitterConfig struct {
	emittingTimeMs float64 // 发射窗口总时长（毫秒）
	msPerParticle  float64 // 每生成一个粒子需要的时间（毫秒）
	maxCount       int     // Max 模式下的总数，PerSecond 模式为 0
}

// Max creates a config that emits amount confetti spread evenly over the
// emitter duration.
func (e Emitter) Max(amount int) (EmitterConfig, error) {
	windowMs, err := e.windowMs()
	if err != nil {
		return EmitterConfig{}, err
	}
	if amount <= 0 {
		return EmitterConfig{}, fmt.Errorf("%w: max amount must be > 0, got %d", ErrInvalidEmissionConfig, amount)
	}
	return EmitterConfig{
		emittingTimeMs: windowMs,
		msPerParticle:  windowMs / float64(amount),
		maxCount:       amount,
	}, nil
}

// PerSecond creates a config that emits amount confetti every second for the
// emitter duration. The rate only changes the cadence, not the window.
func (e Emitter) PerSecond(amount int) (EmitterConfig, error) {
	windowMs, err := e.windowMs()
	if err != nil {
		return EmitterConfig{}, err
	}
	if amount <= 0 {
		return EmitterConfig{}, fmt.Errorf("%w: per second amount must be > 0, got %d", ErrInvalidEmissionConfig, amount)
	}
	return EmitterConfig{
		emittingTimeMs: windowMs,
		msPerParticle:  1000 / float64(amount),
	}, nil
}

func (e Emitter) windowMs() (float64, error) {
	if e.Duration < 0 {
		return 0, fmt.Errorf("%w: duration must be >= 0, got %v", ErrInvalidEmissionConfig, e.Duration)
	}
	return float64(e.Duration) / float64(time.Millisecond), nil
}

// EmittingTimeMs returns the total emission window in milliseconds.
func (c EmitterConfig) EmittingTimeMs() float64 {
	return c.emittingTimeMs
}

// MsPerParticle returns the time needed for each confetti creation.
func (c EmitterConfig) MsPerParticle() float64 {
	return c.msPerParticle
}

// MaxCount returns the configured total for Max configs and 0 otherwise.
func (c EmitterConfig) MaxCount() int {
	return c.maxCount
}

// CanEmit reports whether this config will ever create a confetti.
func (c EmitterConfig) CanEmit() bool {
	return c.msPerParticle > 0 && c.emittingTimeMs > 0
}

// TargetCount returns how many confetti should have been created once
// elapsedMs of the emission timeline has passed.
func (c EmitterConfig) TargetCount(elapsedMs float64) int {
	if !c.CanEmit() || !(elapsedMs > 0) {
		return 0
	}
	elapsed := math.Min(elapsedMs, c.emittingTimeMs)

	var n float64
	if c.maxCount > 0 {
		// 直接按比例计算，避免先求 msPerParticle 再相除带来的误差
		n = elapsed * float64(c.maxCount) / c.emittingTimeMs
	} else {
		n = elapsed / c.msPerParticle
	}

	count := int(math.Floor(n + countEpsilon))
	if c.maxCount > 0 && count > c.maxCount {
		count = c.maxCount
	}
	return count
}

// creationInstant returns the ideal creation time of the n-th confetti (1-based).
func (c EmitterConfig) creationInstant(n int) float64 {
	if c.maxCount > 0 {
		return float64(n) * c.emittingTimeMs / float64(c.maxCount)
	}
	return float64(n) * c.msPerParticle
}

// Schedule returns the pre-age, in milliseconds, of every confetti owed in a
// frame that started at previousElapsedMs and lasted deltaMs, given that
// emitted confetti were already created.
//
// Each age is the part of the frame that occurs after the confetti's ideal
// creation instant, so a single huge frame ages early confetti by almost the
// whole frame instead of leaving them at zero.
func (c EmitterConfig) Schedule(previousElapsedMs, deltaMs float64, emitted int) []float64 {
	if !c.CanEmit() || previousElapsedMs >= c.emittingTimeMs {
		return nil
	}

	toSpawn := c.TargetCount(previousElapsedMs+deltaMs) - emitted
	if toSpawn <= 0 {
		return nil
	}

	ages := make([]float64, toSpawn)
	for i := range ages {
		offset := c.creationInstant(emitted+i+1) - previousElapsedMs
		offset = math.Max(0, math.Min(deltaMs, offset))
		ages[i] = deltaMs - offset
	}
	return ages
}
