package emitter

import (
	"errors"
	"math"
	"testing"
	"time"
)

// TestEmitterMax 测试按总数构造发射配置
func TestEmitterMax(t *testing.T) {
	tests := []struct {
		name          string
		duration      time.Duration
		amount        int
		wantWindow    float64
		wantMsPerConf float64
	}{
		{"100ms max 4", 100 * time.Millisecond, 4, 100, 25},
		{"100ms max 5", 100 * time.Millisecond, 5, 100, 20},
		{"1s max 200", time.Second, 200, 1000, 5},
		{"zero duration", 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Emitter{Duration: tt.duration}.Max(tt.amount)
			if err != nil {
				t.Fatalf("Max(%d) error: %v", tt.amount, err)
			}
			if cfg.EmittingTimeMs() != tt.wantWindow {
				t.Errorf("EmittingTimeMs() = %v, want %v", cfg.EmittingTimeMs(), tt.wantWindow)
			}
			if cfg.MsPerParticle() != tt.wantMsPerConf {
				t.Errorf("MsPerParticle() = %v, want %v", cfg.MsPerParticle(), tt.wantMsPerConf)
			}
			if cfg.MaxCount() != tt.amount {
				t.Errorf("MaxCount() = %d, want %d", cfg.MaxCount(), tt.amount)
			}
		})
	}
}

// TestEmitterPerSecond 测试按速率构造发射配置，窗口仍来自 Duration
func TestEmitterPerSecond(t *testing.T) {
	cfg, err := Emitter{Duration: 5 * time.Second}.PerSecond(30)
	if err != nil {
		t.Fatalf("PerSecond(30) error: %v", err)
	}
	if cfg.EmittingTimeMs() != 5000 {
		t.Errorf("EmittingTimeMs() = %v, want 5000", cfg.EmittingTimeMs())
	}
	if math.Abs(cfg.MsPerParticle()-1000.0/30.0) > 1e-12 {
		t.Errorf("MsPerParticle() = %v, want %v", cfg.MsPerParticle(), 1000.0/30.0)
	}
	if cfg.MaxCount() != 0 {
		t.Errorf("MaxCount() = %d, want 0", cfg.MaxCount())
	}
}

// TestInvalidEmissionConfig 测试非法配置返回 ErrInvalidEmissionConfig
func TestInvalidEmissionConfig(t *testing.T) {
	tests := []struct {
		name  string
		build func() (EmitterConfig, error)
	}{
		{"max zero", func() (EmitterConfig, error) { return Emitter{Duration: time.Second}.Max(0) }},
		{"max negative", func() (EmitterConfig, error) { return Emitter{Duration: time.Second}.Max(-3) }},
		{"per second zero", func() (EmitterConfig, error) { return Emitter{Duration: time.Second}.PerSecond(0) }},
		{"per second negative", func() (EmitterConfig, error) { return Emitter{Duration: time.Second}.PerSecond(-1) }},
		{"negative duration", func() (EmitterConfig, error) { return Emitter{Duration: -time.Second}.Max(10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.build()
			if !errors.Is(err, ErrInvalidEmissionConfig) {
				t.Fatalf("error = %v, want ErrInvalidEmissionConfig", err)
			}
			if cfg.CanEmit() {
				t.Error("CanEmit() = true for invalid config, want false")
			}
		})
	}
}

// TestZeroValueNeverEmits 测试零值配置永远不发射
func TestZeroValueNeverEmits(t *testing.T) {
	var cfg EmitterConfig
	if cfg.CanEmit() {
		t.Error("zero value CanEmit() = true, want false")
	}
	if got := cfg.TargetCount(1e6); got != 0 {
		t.Errorf("zero value TargetCount = %d, want 0", got)
	}
	if ages := cfg.Schedule(0, 1e6, 0); ages != nil {
		t.Errorf("zero value Schedule = %v, want nil", ages)
	}
}

// TestTargetCount 测试目标发射数量 floor(min(elapsed, window) / msPerParticle)
func TestTargetCount(t *testing.T) {
	max4, _ := Emitter{Duration: 100 * time.Millisecond}.Max(4)
	max3, _ := Emitter{Duration: 100 * time.Millisecond}.Max(3)
	rate, _ := Emitter{Duration: time.Second}.PerSecond(10)

	tests := []struct {
		name    string
		cfg     EmitterConfig
		elapsed float64
		want    int
	}{
		{"max4 before first", max4, 17, 0},
		{"max4 exactly first", max4, 25, 1},
		{"max4 34ms", max4, 34, 1},
		{"max4 51ms", max4, 51, 2},
		{"max4 clamps to window", max4, 60000, 4},
		{"max3 whole window", max3, 100, 3},
		{"rate 250ms", rate, 250, 2},
		{"rate past window", rate, 5000, 10},
		{"negative elapsed", max4, -10, 0},
		{"NaN elapsed", max4, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.TargetCount(tt.elapsed); got != tt.want {
				t.Errorf("TargetCount(%v) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

// TestSchedulePreAging 测试单帧跨越多个发射时刻时的预老化
func TestSchedulePreAging(t *testing.T) {
	cfg, _ := Emitter{Duration: 100 * time.Millisecond}.Max(2)

	// 一帧 60000ms：第 1 个粒子在 50ms 创建，第 2 个在 100ms 创建
	ages := cfg.Schedule(0, 60000, 0)
	if len(ages) != 2 {
		t.Fatalf("Schedule returned %d ages, want 2", len(ages))
	}
	if ages[0] != 59950 {
		t.Errorf("ages[0] = %v, want 59950", ages[0])
	}
	if ages[1] != 59900 {
		t.Errorf("ages[1] = %v, want 59900", ages[1])
	}
}

// TestScheduleWithinFrame 测试帧内创建偏移
func TestScheduleWithinFrame(t *testing.T) {
	cfg, _ := Emitter{Duration: 100 * time.Millisecond}.Max(5) // 每 20ms 一个

	// 第二帧 17ms -> 34ms：20ms 时创建，帧结束时年龄 14ms
	ages := cfg.Schedule(17, 17, 0)
	if len(ages) != 1 || ages[0] != 14 {
		t.Errorf("Schedule(17, 17, 0) = %v, want [14]", ages)
	}

	// 已经发射过则不再重复
	if ages := cfg.Schedule(17, 17, 1); ages != nil {
		t.Errorf("Schedule(17, 17, 1) = %v, want nil", ages)
	}

	// 窗口已在帧开始前耗尽
	if ages := cfg.Schedule(100, 17, 5); ages != nil {
		t.Errorf("Schedule after window = %v, want nil", ages)
	}
}

// TestScheduleAgesWithinFrame 测试所有预老化年龄都在 [0, delta] 内且非递增
func TestScheduleAgesWithinFrame(t *testing.T) {
	cfg, _ := Emitter{Duration: time.Second}.PerSecond(300)

	delta := 33.0
	ages := cfg.Schedule(10, delta, cfg.TargetCount(10))
	if len(ages) == 0 {
		t.Fatal("Schedule returned no ages")
	}
	for i, age := range ages {
		if age < 0 || age > delta {
			t.Errorf("ages[%d] = %v, want within [0, %v]", i, age, delta)
		}
		if i > 0 && age > ages[i-1] {
			t.Errorf("ages[%d] = %v > ages[%d] = %v, later confetti must be younger", i, age, i-1, ages[i-1])
		}
	}
}

// TestScheduleChunkingInvariance 测试发射总数与帧切分方式无关
func TestScheduleChunkingInvariance(t *testing.T) {
	cfg, _ := Emitter{Duration: 100 * time.Millisecond}.Max(7)

	chunkings := map[string][]float64{
		"one frame":    {90},
		"even frames":  {30, 30, 30},
		"uneven":       {1, 2, 3, 40, 0, 44},
		"tiny frames":  repeat(0.5, 180),
		"jumpy frames": {45, 0.25, 0.25, 44.5},
	}

	want := cfg.TargetCount(90)
	for name, deltas := range chunkings {
		t.Run(name, func(t *testing.T) {
			elapsed := 0.0
			emitted := 0
			for _, d := range deltas {
				emitted += len(cfg.Schedule(elapsed, d, emitted))
				elapsed += d
			}
			if emitted != want {
				t.Errorf("emitted = %d, want %d", emitted, want)
			}
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
