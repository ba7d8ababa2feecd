package entities

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/types"
)

// 特效模板名
const (
	EffectExplosion = "explosion"
	EffectHit       = "hit"
)

// NewEffect 创建短命特效实体，到期后由 LifetimeSystem 移除
// 特效没有命中框，不参与碰撞
//
// 参数:
//   - em: 实体管理器
//   - name: 特效模板名（EffectExplosion / EffectHit）
//   - x, y: 特效位置
//   - frames: 存在帧数
//
// 返回:
//   - ecs.EntityID: 特效实体ID
func NewEffect(em *ecs.EntityManager, name string, x, y float64, frames int) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.CombatantComponent{
		Role:        types.RoleEffect,
		TemplateKey: name,
	})
	ecs.AddComponent(em, id, &components.LifecycleComponent{
		State:   types.StateActive,
		Visible: true,
	})
	ecs.AddComponent(em, id, &components.AnimationComponent{
		Current: name,
		Alpha:   1,
	})
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxFrames: frames})
	return id
}
