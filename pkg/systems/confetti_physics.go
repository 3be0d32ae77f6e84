package systems

import (
	"math"
	"math/rand"

	"github.com/decker502/konfetti/internal/particle"
	"github.com/decker502/konfetti/pkg/components"
	"github.com/decker502/konfetti/pkg/utils"
)

// confetti_physics.go - 单个彩纸粒子的创建与推进
//
// 物理模型只追求"看起来像彩纸"：重力 + 按 60fps 归一化的阻尼 + 2D/3D 旋转。
// 推进函数是纯函数（只依赖粒子自身状态和 dt），便于单独测试。

// newConfetti creates a confetti of party at (x, y) with age 0.
func newConfetti(party *components.Party, pixelDensity float64, rng *rand.Rand, x, y float64) components.Confetti {
	// Launch direction: Angle ± Spread/2
	angle := party.Angle + party.Spread*(rng.Float64()-0.5)
	angleRad := angle * math.Pi / 180.0

	speed := party.Speed
	if party.MaxSpeed > party.Speed {
		speed = particle.RandomInRange(rng, party.Speed, party.MaxSpeed)
	}
	speed *= pixelDensity

	size := components.SizeMedium
	if len(party.Sizes) > 0 {
		size = party.Sizes[rng.Intn(len(party.Sizes))]
	}
	mass := size.Mass
	if size.MassVariance > 0 {
		mass *= 1 + size.MassVariance*(rng.Float64()*2-1)
	}

	color := uint32(0xffffff)
	if len(party.Colors) > 0 {
		color = party.Colors[rng.Intn(len(party.Colors))]
	}

	shape := components.Square()
	if len(party.Shapes) > 0 {
		shape = party.Shapes[rng.Intn(len(party.Shapes))]
	}

	c := components.Confetti{
		X:              x,
		Y:              y,
		VelocityX:      speed * math.Cos(angleRad),
		VelocityY:      speed * math.Sin(angleRad), // Y轴向下为正，与屏幕坐标系一致
		Gravity:        party.Gravity * mass * pixelDensity,
		Damping:        party.Damping,
		Rotation:       rng.Float64() * 360,
		Size:           size.SizeInPx * pixelDensity,
		Color:          color,
		Shape:          shape,
		TimeToLiveMs:   party.TimeToLiveMs,
		FadeOutEnabled: party.FadeOutEnabled,
		FadeOutCurve:   party.FadeOutCurve,
		FadeOutInterp:  party.FadeOutInterp,
	}

	if party.Rotation.Enabled {
		r := party.Rotation
		// 每个粒子的转速 = 基础转速 × (1 ± variance)，方向随机
		turns := r.Speed * (1 + r.Variance*(rng.Float64()*2-1))
		if rng.Intn(2) == 0 {
			turns = -turns
		}
		c.RotationSpeed = turns * r.Multiplier2D * 360
		c.RotationSpeed3D = turns * r.Multiplier3D * 360
	}

	c.Alpha = fadeAlpha(&c)
	return c
}

// spawnPoint resolves a party position against the viewport.
func spawnPoint(pos components.Position, vp components.Rect, rng *rand.Rand) (float64, float64) {
	x, y := pos.X, pos.Y
	if pos.HasBetween {
		x = utils.Lerp(pos.X, pos.ToX, rng.Float64())
		y = utils.Lerp(pos.Y, pos.ToY, rng.Float64())
	}
	if pos.Relative {
		x = vp.MinX + x*vp.Width()
		y = vp.MinY + y*vp.Height()
	}
	return x, y
}

// stepConfetti advances c by dtMs milliseconds.
func stepConfetti(c *components.Confetti, dtMs float64) {
	if dtMs <= 0 {
		return
	}
	c.AgeMs += dtMs
	dt := dtMs / 1000.0

	c.VelocityY += c.Gravity * dt

	// 阻尼按 60fps 归一化，与帧率无关
	if c.Damping > 0 && c.Damping < 1 {
		drag := math.Pow(c.Damping, dt*60)
		c.VelocityX *= drag
		c.VelocityY *= drag
	}

	c.X += c.VelocityX * dt
	c.Y += c.VelocityY * dt

	c.Rotation = math.Mod(c.Rotation+c.RotationSpeed*dt, 360)
	c.Rotation3D = math.Mod(c.Rotation3D+c.RotationSpeed3D*dt, 360)

	c.Alpha = fadeAlpha(c)
}

// fadeAlpha returns the alpha of c for its current age.
//
// The curve decays monotonically to zero at the end of life. Without a custom
// curve the alpha is 1 - easeInCubic(age/ttl): barely visible fading at first,
// then fast towards the end.
func fadeAlpha(c *components.Confetti) float64 {
	if !c.FadeOutEnabled || c.TimeToLiveMs <= 0 {
		return 1
	}
	t := c.AgeMs / c.TimeToLiveMs
	if t >= 1 {
		return 0
	}
	if len(c.FadeOutCurve) > 0 {
		a := particle.EvaluateKeyframes(c.FadeOutCurve, t, c.FadeOutInterp)
		return math.Max(0, math.Min(1, a))
	}
	return 1 - utils.EaseInCubic(t)
}

// isConfettiAlive reports whether c survives: not expired, not faded out and
// still inside the viewport. Any one failing condition kills it.
func isConfettiAlive(c *components.Confetti, vp components.Rect) bool {
	if c.AgeMs >= c.TimeToLiveMs {
		return false
	}
	if c.FadeOutEnabled && c.Alpha <= 0 {
		return false
	}
	return vp.Contains(c.X, c.Y)
}
