package systems

import (
	"testing"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/ecs"
)

func TestLifetimeUpdate(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxFrames: 10})

	for i := 0; i < 5; i++ {
		system.Update()
	}

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if lifetime.Frames != 5 {
		t.Errorf("Expected Frames=5, got %d", lifetime.Frames)
	}
	if lifetime.IsExpired {
		t.Error("Entity should not be expired yet")
	}
	if em.IsMarkedForRemoval(id) {
		t.Error("Entity should not be marked for removal yet")
	}
}

func TestLifetimeExpiration(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxFrames: 3})

	for i := 0; i < 3; i++ {
		system.Update()
	}

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if !lifetime.IsExpired {
		t.Error("Entity should be expired")
	}
	if !em.IsMarkedForRemoval(id) {
		t.Error("Expired entity should be marked for removal")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Expired entity should be removed")
	}
}

func TestFlashEffectFadesAndRemoves(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewFlashEffectSystem(em)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.FlashEffectComponent{Frames: 4, Intensity: 1})

	system.Update()
	flash, ok := ecs.GetComponent[*components.FlashEffectComponent](em, id)
	if !ok {
		t.Fatal("flash removed too early")
	}
	if flash.Intensity != 0.75 {
		t.Errorf("Expected intensity 0.75, got %f", flash.Intensity)
	}

	for i := 0; i < 3; i++ {
		system.Update()
	}
	if ecs.HasComponent[*components.FlashEffectComponent](em, id) {
		t.Error("flash should be removed after its frames elapse")
	}
}
