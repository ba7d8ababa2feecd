package components

import (
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/types"
)

// BulletComponent 子弹数据
type BulletComponent struct {
	Owner    types.EntityRole // RolePlayer / RoleEnemy / RoleBoss
	OwnerID  ecs.EntityID
	Damage   int
	Template string
	Piercing bool // 贯穿弹：由 HitTrackerComponent 按重叠帧数决定何时造成伤害
}

// HomingComponent 延迟启动、水平追踪玩家的子弹运动
type HomingComponent struct {
	DelayFrames int     // 启动前悬停的帧数
	Factor      float64 // 每帧向玩家X靠近的比例
	Speed       float64 // 启动后的下落速度
}

// HitRecord 贯穿弹对单个目标的命中记录
type HitRecord struct {
	Count   int
	Overlap int // 与目标重叠的累计帧数
}

// HitTrackerComponent 按目标记录贯穿弹的命中次数
type HitTrackerComponent struct {
	Cadence int // 重叠满这么多帧造成一次伤害
	Cap     int // 同一目标的最多伤害次数
	Hits    map[ecs.EntityID]*HitRecord
}

// NewHitTracker 创建命中记录
func NewHitTracker(cadence, cap int) *HitTrackerComponent {
	return &HitTrackerComponent{
		Cadence: cadence,
		Cap:     cap,
		Hits:    make(map[ecs.EntityID]*HitRecord),
	}
}

// TryHit 记录与 target 重叠的一帧，重叠帧数每满 Cadence 帧返回 true（最多 Cap 次）
func (h *HitTrackerComponent) TryHit(target ecs.EntityID) bool {
	rec, ok := h.Hits[target]
	if !ok {
		rec = &HitRecord{}
		h.Hits[target] = rec
	}
	rec.Overlap++
	if rec.Count >= h.Cap || rec.Overlap%h.Cadence != 0 {
		return false
	}
	rec.Count++
	return true
}
