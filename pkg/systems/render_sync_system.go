package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/game"
)

// RenderSyncSystem 把实体状态同步到渲染协作方
// 渲染节点以实体 ID 为键；实体移除后对应节点随之销毁
type RenderSyncSystem struct {
	em       *ecs.EntityManager
	renderer game.Renderer
	nodes    map[ecs.EntityID]string // 实体 -> 最近一次设置的动画
}

// NewRenderSyncSystem 创建渲染同步系统
func NewRenderSyncSystem(em *ecs.EntityManager, renderer game.Renderer) *RenderSyncSystem {
	return &RenderSyncSystem{
		em:       em,
		renderer: renderer,
		nodes:    make(map[ecs.EntityID]string),
	}
}

// Update 创建新节点、更新动画和变换、销毁已移除实体的节点
func (s *RenderSyncSystem) Update() {
	for id := range s.nodes {
		if !s.em.Exists(id) {
			s.renderer.DestroyNode(id)
			delete(s.nodes, id)
		}
	}

	for _, id := range ecs.GetEntitiesWith2[*components.CombatantComponent, *components.PositionComponent](s.em) {
		c, _ := ecs.GetComponent[*components.CombatantComponent](s.em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)

		last, known := s.nodes[id]
		if !known {
			s.renderer.CreateNode(id, c.Role, c.TemplateKey)
		}

		t := game.Transform{X: pos.X, Y: pos.Y, Scale: 1, Alpha: 1, Visible: true}
		if col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok && col.Scale != 0 {
			t.Scale = col.Scale
		}
		if lc, ok := ecs.GetComponent[*components.LifecycleComponent](s.em, id); ok {
			t.Visible = lc.Visible
		}
		if flash, ok := ecs.GetComponent[*components.FlashEffectComponent](s.em, id); ok {
			t.Flash = flash.Intensity
		}
		anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id)
		if ok {
			t.Alpha = anim.Alpha
			if !known || anim.Current != last {
				s.renderer.SetAnimation(id, anim.Current)
			}
			s.nodes[id] = anim.Current
		} else {
			s.nodes[id] = last
		}
		s.renderer.SetTransform(id, t)
	}
}

// Clear 销毁所有节点（关卡销毁时调用）
func (s *RenderSyncSystem) Clear() {
	for id := range s.nodes {
		s.renderer.DestroyNode(id)
		delete(s.nodes, id)
	}
}
