package types

// LifecycleState 实体生命周期状态
// 状态只能单调前进：Active → Damaged → Dying → Removed
type LifecycleState int

const (
	StateActive LifecycleState = iota
	StateDamaged
	StateDying
	StateRemoved
)

func (s LifecycleState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDamaged:
		return "damaged"
	case StateDying:
		return "dying"
	case StateRemoved:
		return "removed"
	default:
		return "invalid"
	}
}

// CanTransitionTo 判断状态迁移是否合法（不允许回退）
func (s LifecycleState) CanTransitionTo(next LifecycleState) bool {
	return next >= s
}
