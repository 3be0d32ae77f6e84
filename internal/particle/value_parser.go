// Package particle parses the value strings used by confetti party presets.
//
// Preset files keep ranges and curves as short strings so designers can write
// them inline:
//   - Fixed value: "30"
//   - Range: "[10 30]" (random value between min and max)
//   - Keyframes: "0,1 .75,1 1,0" (time,value pairs, time normalized to 0-1)
//   - Interpolation keyword appended to keyframes: "0,1 1,0 EaseIn"
package particle

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Keyframe represents a single keyframe in an animation curve.
type Keyframe struct {
	Time  float64 // Normalized time (0-1)
	Value float64 // Value at this keyframe
}

// interpolationKeywords 支持的插值模式
var interpolationKeywords = []string{"Linear", "EaseIn", "EaseOut", "FastInOutWeak"}

// ParseRange parses a fixed value or a "[min max]" range.
//
// An empty string parses to 0, 0 without error so optional fields can be left out.
func ParseRange(s string) (min, max float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 1:
			// 单值格式 "[value]" 作为固定值处理
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return 0, 0, fmt.Errorf("invalid range value %q: %w", s, err)
			}
			return v, v, nil
		case 2:
			min, err1 := strconv.ParseFloat(parts[0], 64)
			max, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return 0, 0, fmt.Errorf("invalid range %q", s)
			}
			if min > max {
				min, max = max, min
			}
			return min, max, nil
		default:
			return 0, 0, fmt.Errorf("invalid range %q: want [min max]", s)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, v, nil
}

// ParseKeyframes parses a "time,value time,value [Interpolation]" curve.
//
// Keyframes are returned sorted by time. An empty string returns nil.
func ParseKeyframes(s string) (keyframes []Keyframe, interpolation string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", nil
	}

	for _, keyword := range interpolationKeywords {
		if strings.Contains(s, keyword) {
			interpolation = keyword
			s = strings.TrimSpace(strings.ReplaceAll(s, keyword, ""))
			break
		}
	}

	parts := strings.Fields(s)
	keyframes = make([]Keyframe, 0, len(parts))
	for _, part := range parts {
		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			return nil, "", fmt.Errorf("invalid keyframe %q: want time,value", part)
		}
		tm, err1 := strconv.ParseFloat(pair[0], 64)
		val, err2 := strconv.ParseFloat(pair[1], 64)
		if err1 != nil || err2 != nil {
			return nil, "", fmt.Errorf("invalid keyframe %q", part)
		}
		if tm < 0 || tm > 1 {
			return nil, "", fmt.Errorf("keyframe time %v out of range [0, 1]", tm)
		}
		keyframes = append(keyframes, Keyframe{Time: tm, Value: val})
	}

	if len(keyframes) == 0 {
		return nil, "", fmt.Errorf("no keyframes in %q", s)
	}

	sort.SliceStable(keyframes, func(i, j int) bool {
		return keyframes[i].Time < keyframes[j].Time
	})
	return keyframes, interpolation, nil
}

// EvaluateKeyframes calculates the interpolated value at time t (0-1)
// using the provided keyframes and interpolation mode.
//
// Keyframes must be sorted by Time.
func EvaluateKeyframes(keyframes []Keyframe, t float64, interpolation string) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 {
		return keyframes[0].Value
	}

	t = math.Max(0, math.Min(1, t))

	if t < keyframes[0].Time {
		return keyframes[0].Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		k0 := keyframes[i]
		k1 := keyframes[i+1]

		if t >= k0.Time && t <= k1.Time {
			duration := k1.Time - k0.Time
			if duration <= 0 {
				return k0.Value
			}
			ratio := (t - k0.Time) / duration

			switch interpolation {
			case "EaseIn":
				ratio = ratio * ratio
			case "EaseOut":
				ratio = 1 - (1-ratio)*(1-ratio)
			case "FastInOutWeak":
				ratio = ratio * ratio * (3 - 2*ratio)
			}
			return k0.Value + ratio*(k1.Value-k0.Value)
		}
	}

	// t 超过最后一个关键帧，返回最后的值
	return keyframes[len(keyframes)-1].Value
}

// RandomInRange returns a random float64 in the range [min, max] drawn from rng.
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rng.Float64()*(max-min)
}
