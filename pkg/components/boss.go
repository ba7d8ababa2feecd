package components

import "github.com/decker502/shmup/pkg/types"

// BossPhase Boss 攻击引擎状态
type BossPhase int

const (
	BossEntering BossPhase = iota
	BossIdle
	BossExecuting
	BossDefeated
)

// String 返回状态名
func (p BossPhase) String() string {
	switch p {
	case BossEntering:
		return "entering"
	case BossIdle:
		return "idle"
	case BossExecuting:
		return "executing"
	case BossDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}

// BossComponent Boss 攻击引擎状态
type BossComponent struct {
	Kind       types.BossKind
	Phase      BossPhase
	EngageY    float64
	EntrySpeed float64

	// SequenceID 当前攻击模式序列，0 表示没有
	SequenceID uint64
	// DelayFrames Idle 状态下距下一次选择攻击模式的剩余帧数
	DelayFrames int
	// LoopEnded 攻击模式在本帧结束，停顿从下一帧开始计数
	LoopEnded bool
	// EngagedFrames 交战后经过的帧数（不含冻结）
	EngagedFrames int
	Loops         int
	Frozen        bool
	Enraged       bool

	// HandoffPending 该实例会在满足条件时交接为另一种 Boss
	HandoffPending bool
	// HandoffDone 交接已经触发过
	HandoffDone bool
	DangerShown bool
	LastPattern string
}
