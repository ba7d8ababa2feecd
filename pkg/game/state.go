package game

import (
	"math/rand"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
)

// Outcome 关卡结果
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeCleared
	OutcomeGameOver
	OutcomeTimeOver
)

// String 返回结果名
func (o Outcome) String() string {
	switch o {
	case OutcomePlaying:
		return "playing"
	case OutcomeCleared:
		return "cleared"
	case OutcomeGameOver:
		return "game_over"
	case OutcomeTimeOver:
		return "time_over"
	default:
		return "unknown"
	}
}

// ComboState 连击计数
type ComboState struct {
	Count       int
	MaxCount    int
	DecayFrames int // 归零前剩余的帧数
}

// Multiplier 当前得分倍率：max(1, ceil(Count/10))
func (c ComboState) Multiplier() int {
	return Multiplier(c.Count)
}

// Multiplier 根据连击数计算得分倍率
func Multiplier(count int) int {
	m := (count + config.ComboCreditsPerTier - 1) / config.ComboCreditsPerTier
	if m < 1 {
		return 1
	}
	return m
}

// GaugeState CA 槽
type GaugeState struct {
	Value  int
	Ready  bool
	Firing bool
}

// BossTimer Boss 战倒计时
type BossTimer struct {
	Frames  int
	Active  bool
	Expired bool
}

// Seconds 剩余秒数（向上取整，用于显示）
func (t BossTimer) Seconds() int {
	return (t.Frames + config.TicksPerSecond - 1) / config.TicksPerSecond
}

// SimulationState 单个关卡的可变状态
// 每个关卡创建一个新实例，不在关卡之间共享
type SimulationState struct {
	StageIndex    int
	ContinueCount int
	Rand          *rand.Rand

	Score int
	Combo ComboState
	Gauge GaugeState

	PlayerID ecs.EntityID
	BossID   ecs.EntityID
	Timer    BossTimer

	Outcome Outcome
}

// NewSimulationState 创建关卡状态
//
// 参数:
//   - stage: 关卡索引
//   - continues: 已使用的续关次数
//   - seed: 随机数种子（攻击模式选择、爆炸位置等）
//
// 返回:
//   - *SimulationState: 新的关卡状态
func NewSimulationState(stage, continues int, seed int64) *SimulationState {
	return &SimulationState{
		StageIndex:    stage,
		ContinueCount: continues,
		Rand:          rand.New(rand.NewSource(seed)),
	}
}

// Finished 关卡是否已经结束
func (s *SimulationState) Finished() bool {
	return s.Outcome != OutcomePlaying
}

// Finish 设置关卡结果，只有第一次调用生效
func (s *SimulationState) Finish(o Outcome) bool {
	if s.Finished() {
		return false
	}
	s.Outcome = o
	return true
}
