package entities

import (
	"testing"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/types"
)

func TestNewEffect(t *testing.T) {
	tests := []struct {
		name   string
		effect string
		x, y   float64
		frames int
	}{
		{"爆炸特效", EffectExplosion, 100, 200, 15},
		{"命中特效", EffectHit, 0, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			id := NewEffect(em, tt.effect, tt.x, tt.y, tt.frames)

			pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
			if !ok || pos.X != tt.x || pos.Y != tt.y {
				t.Errorf("position = %+v, want (%v,%v)", pos, tt.x, tt.y)
			}
			c, _ := ecs.GetComponent[*components.CombatantComponent](em, id)
			if c.Role != types.RoleEffect || c.TemplateKey != tt.effect {
				t.Errorf("combatant = %+v", c)
			}
			lt, ok := ecs.GetComponent[*components.LifetimeComponent](em, id)
			if !ok || lt.MaxFrames != tt.frames {
				t.Errorf("lifetime = %+v, want %d frames", lt, tt.frames)
			}
			if ecs.HasComponent[*components.CollisionComponent](em, id) {
				t.Error("effects must not collide")
			}
		})
	}
}
