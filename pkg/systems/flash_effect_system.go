package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/ecs"
)

// FlashEffectSystem 受击闪白效果
// 冻结期间照常推进（CA 溅射和抓取演出中也要显示受击）
type FlashEffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewFlashEffectSystem 创建闪烁效果系统
func NewFlashEffectSystem(em *ecs.EntityManager) *FlashEffectSystem {
	return &FlashEffectSystem{
		entityManager: em,
	}
}

// Update 推进一帧，结束的闪烁移除组件
func (s *FlashEffectSystem) Update() {
	for _, entity := range ecs.GetEntitiesWith1[*components.FlashEffectComponent](s.entityManager) {
		flash, ok := ecs.GetComponent[*components.FlashEffectComponent](s.entityManager, entity)
		if !ok {
			continue
		}

		flash.Elapsed++
		if flash.Frames <= 0 || flash.Elapsed >= flash.Frames {
			ecs.RemoveComponent[*components.FlashEffectComponent](s.entityManager, entity)
			continue
		}
		flash.Intensity = 1 - float64(flash.Elapsed)/float64(flash.Frames)
	}
}
