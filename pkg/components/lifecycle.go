package components

import "github.com/decker502/shmup/pkg/types"

// LifecycleComponent 实体的生命周期状态
//
// 状态只会单调前进：Active -> Damaged -> Dying -> Removed。
// DeadFlag 只由 LifecycleSystem 的死亡转换设置，设置后不再受理任何伤害。
type LifecycleComponent struct {
	State       types.LifecycleState
	DeadFlag    bool
	Visible     bool
	DeathFrames int // 普通死亡动画的帧数
}
