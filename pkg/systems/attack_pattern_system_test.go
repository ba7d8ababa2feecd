package systems

import (
	"math"
	"testing"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/types"
)

// addEngagedBoss 在交战位置生成一个立即可以选择攻击模式的 Boss
func addEngagedBoss(t *testing.T, f *combatFixture, kind types.BossKind, handoff bool) (ecs.EntityID, *components.BossComponent) {
	t.Helper()
	id, err := entities.NewBoss(f.em, f.catalog, kind, config.CenterX, config.EngageY(kind), handoff)
	if err != nil {
		t.Fatalf("NewBoss(%v) failed: %v", kind, err)
	}
	f.state.BossID = id
	boss, _ := ecs.GetComponent[*components.BossComponent](f.em, id)
	boss.Phase = components.BossIdle
	return id, boss
}

func TestChoosePattern(t *testing.T) {
	patterns := []config.PatternDef{
		{Name: "light", Weight: 1},
		{Name: "heavy", Weight: 3},
	}
	tests := []struct {
		roll float64
		want string
	}{
		{0, "light"},
		{0.24, "light"},
		{0.25, "heavy"},
		{0.999, "heavy"},
	}
	for _, tt := range tests {
		if got := ChoosePattern(patterns, tt.roll).Name; got != tt.want {
			t.Errorf("ChoosePattern(roll=%v) = %s, want %s", tt.roll, got, tt.want)
		}
	}
}

func TestAttackPattern_EntryToEngage(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeBossEngaged)
	id, err := entities.NewBoss(f.em, f.catalog, types.BossBison, config.CenterX, -80, false)
	if err != nil {
		t.Fatalf("NewBoss failed: %v", err)
	}
	f.state.BossID = id
	boss, _ := ecs.GetComponent[*components.BossComponent](f.em, id)
	pos, _ := ecs.GetComponent[*components.PositionComponent](f.em, id)

	frames := int(math.Ceil((boss.EngageY + 80) / boss.EntrySpeed))
	for i := 0; i < frames-1; i++ {
		f.attack.Update()
	}
	if boss.Phase != components.BossEntering {
		t.Fatalf("engaged early at y=%v", pos.Y)
	}
	f.attack.Update()
	f.dispatcher.Flush()

	if boss.Phase != components.BossIdle || pos.Y != boss.EngageY {
		t.Errorf("phase=%v y=%v, want idle at %v", boss.Phase, pos.Y, boss.EngageY)
	}
	if log.count(event.TypeBossEngaged) != 1 {
		t.Errorf("BossEngaged published %d times, want 1", log.count(event.TypeBossEngaged))
	}
	if !f.state.Timer.Active {
		t.Error("boss timer should start on engage")
	}
}

func TestAttackPattern_FangEngagesHigher(t *testing.T) {
	if config.EngageY(types.BossFang) != config.FangEngageY {
		t.Errorf("Fang engage Y = %v", config.EngageY(types.BossFang))
	}
	if config.EngageY(types.BossVega) != config.ScreenHeight/4.0 {
		t.Errorf("Vega engage Y = %v", config.EngageY(types.BossVega))
	}
}

func TestAttackPattern_LoopReturnsToIdle(t *testing.T) {
	f := newCombatFixture(t, 0)
	_, boss := addEngagedBoss(t, f, types.BossBison, false)

	f.attack.Update()
	if boss.Phase != components.BossExecuting || boss.SequenceID == 0 {
		t.Fatalf("phase=%v seq=%d, want executing", boss.Phase, boss.SequenceID)
	}
	found := false
	for _, p := range config.Patterns(types.BossBison) {
		if p.Name == boss.LastPattern {
			found = true
		}
	}
	if !found {
		t.Errorf("LastPattern %q is not a bison pattern", boss.LastPattern)
	}

	for i := 0; i < 600 && boss.Phase == components.BossExecuting; i++ {
		f.tick(false)
	}
	if boss.Phase != components.BossIdle {
		t.Fatalf("pattern never finished, phase=%v", boss.Phase)
	}
	if boss.Loops != 1 || boss.SequenceID != 0 {
		t.Errorf("loops=%d seq=%d after one pattern", boss.Loops, boss.SequenceID)
	}
	if boss.DelayFrames != config.BossLoopDelayFrames {
		t.Errorf("loop delay = %d, want %d", boss.DelayFrames, config.BossLoopDelayFrames)
	}

	// 停顿整整 BossLoopDelayFrames 帧，下一帧才选择新模式
	f.run(config.BossLoopDelayFrames)
	if boss.Phase != components.BossIdle || boss.DelayFrames != 0 {
		t.Fatalf("phase=%v delay=%d after the pause", boss.Phase, boss.DelayFrames)
	}
	f.tick(false)
	if boss.Phase != components.BossExecuting {
		t.Errorf("phase = %v, want the next pattern started", boss.Phase)
	}
}

func TestAttackPattern_SeededSelectionIsDeterministic(t *testing.T) {
	pick := func() []string {
		f := newCombatFixture(t, 0)
		_, boss := addEngagedBoss(t, f, types.BossFang, false)
		var names []string
		for len(names) < 5 {
			if boss.Phase == components.BossIdle && boss.DelayFrames == 0 {
				f.attack.Update()
				names = append(names, boss.LastPattern)
				f.scheduler.Cancel(SequenceID(boss.SequenceID))
				boss.Phase = components.BossIdle
				boss.SequenceID = 0
				continue
			}
			f.attack.Update()
		}
		return names
	}
	a, b := pick(), pick()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("selection differs with the same seed: %v vs %v", a, b)
		}
	}
}

func TestAttackPattern_RingEmit(t *testing.T) {
	f := newCombatFixture(t, 3)
	id, boss := addEngagedBoss(t, f, types.BossVega, false)
	tmpl, _ := f.catalog.BossTemplate(boss.Kind)
	pos, _ := ecs.GetComponent[*components.PositionComponent](f.em, id)

	f.attack.emit(id, tmpl, &config.EmitDef{Slot: "B", Formation: config.FormationRing, Count: 24, Radius: 50})

	bullets := ecs.GetEntitiesWith1[*components.BulletComponent](f.em)
	if len(bullets) != 24 {
		t.Fatalf("ring spawned %d bullets, want 24", len(bullets))
	}
	for _, b := range bullets {
		bp, _ := ecs.GetComponent[*components.PositionComponent](f.em, b)
		if d := math.Hypot(bp.X-pos.X, bp.Y-pos.Y); math.Abs(d-50) > 1e-6 {
			t.Errorf("bullet %d at distance %v, want 50", b, d)
		}
		c, _ := ecs.GetComponent[*components.CombatantComponent](f.em, b)
		if c.Role != types.RoleEnemyBullet {
			t.Errorf("boss bullet role = %v", c.Role)
		}
	}
}

func TestAttackPattern_SwarmEmitIsStaggered(t *testing.T) {
	f := newCombatFixture(t, 4)
	id, boss := addEngagedBoss(t, f, types.BossFang, false)
	tmpl, _ := f.catalog.BossTemplate(boss.Kind)

	f.attack.emit(id, tmpl, &config.EmitDef{Slot: "C", Formation: config.FormationSwarm, Count: 32, Stagger: 10})

	bullets := ecs.GetEntitiesWith1[*components.HomingComponent](f.em)
	if len(bullets) != 32 {
		t.Fatalf("swarm spawned %d homing bullets, want 32", len(bullets))
	}
	maxDelay := 0
	for _, b := range bullets {
		h, _ := ecs.GetComponent[*components.HomingComponent](f.em, b)
		if h.DelayFrames > maxDelay {
			maxDelay = h.DelayFrames
		}
		if h.Speed <= 0 {
			t.Errorf("homing bullet %d has no speed", b)
		}
	}
	if maxDelay != 31*10 {
		t.Errorf("largest delay = %d, want 310", maxDelay)
	}
}

func TestAttackPattern_MissingSlotIsSkipped(t *testing.T) {
	f := newCombatFixture(t, 0)
	id, boss := addEngagedBoss(t, f, types.BossBison, false)
	tmpl, _ := f.catalog.BossTemplate(boss.Kind)

	f.attack.emit(id, tmpl, &config.EmitDef{Slot: "A"})
	if n := len(ecs.GetEntitiesWith1[*components.BulletComponent](f.em)); n != 0 {
		t.Errorf("spawned %d bullets from an unconfigured slot", n)
	}
}

func TestAttackPattern_FreezePausesSequence(t *testing.T) {
	f := newCombatFixture(t, 0)
	id, boss := addEngagedBoss(t, f, types.BossBison, false)
	f.attack.Update()
	seq := SequenceID(boss.SequenceID)
	for i := 0; i < 3; i++ {
		f.scheduler.Update()
	}

	f.attack.Freeze(id, true)
	pos, _ := ecs.GetComponent[*components.PositionComponent](f.em, id)
	x, y := pos.X, pos.Y
	for i := 0; i < 30; i++ {
		f.scheduler.Update()
		f.attack.Update()
	}
	if pos.X != x || pos.Y != y {
		t.Error("frozen boss moved")
	}
	anim, _ := ecs.GetComponent[*components.AnimationComponent](f.em, id)
	if !anim.Paused {
		t.Error("animation should pause with the boss")
	}
	if !f.scheduler.IsActive(seq) {
		t.Fatal("freeze must not cancel the sequence")
	}

	f.attack.Freeze(id, false)
	for i := 0; i < 600 && boss.Phase == components.BossExecuting; i++ {
		f.scheduler.Update()
	}
	if boss.Phase != components.BossIdle || anim.Paused {
		t.Error("boss did not resume after unfreeze")
	}
}

func TestAttackPattern_DeathCancelsSequence(t *testing.T) {
	f := newCombatFixture(t, 0)
	id, boss := addEngagedBoss(t, f, types.BossBison, false)
	f.attack.Update()
	seq := SequenceID(boss.SequenceID)

	f.lifecycle.ApplyDamage(id, InfiniteDamage, types.HitNormal)
	if f.scheduler.IsActive(seq) {
		t.Error("pattern should be cancelled on death")
	}
	if boss.Phase != components.BossDefeated {
		t.Errorf("phase = %v, want defeated", boss.Phase)
	}
	f.attack.Update()
	if boss.Phase != components.BossDefeated {
		t.Error("defeated boss started a new pattern")
	}
}

func TestAttackPattern_HandoffConditionChecked(t *testing.T) {
	f := newCombatFixture(t, 3)
	log := newEventLog(f.dispatcher, event.TypeBossTransform)
	_, boss := addEngagedBoss(t, f, types.BossVega, true)

	f.attack.Update()
	f.dispatcher.Flush()
	if log.count(event.TypeBossTransform) != 0 {
		t.Fatal("handoff requested before the condition holds")
	}
	f.scheduler.Cancel(SequenceID(boss.SequenceID))
	boss.Phase = components.BossIdle
	boss.SequenceID = 0
	boss.EngagedFrames = 3 * config.TicksPerSecond

	f.attack.Update()
	if !boss.HandoffDone || boss.SequenceID != 0 {
		t.Errorf("HandoffDone=%v seq=%d, want handoff instead of a pattern", boss.HandoffDone, boss.SequenceID)
	}
	f.dispatcher.Flush()
	if log.count(event.TypeBossTransform) != 1 {
		t.Fatalf("BossTransform published %d times, want 1", log.count(event.TypeBossTransform))
	}
	e := log.events[event.TypeBossTransform][0].(event.BossTransformEvent)
	if e.From != types.BossVega || e.To != types.BossGoki {
		t.Errorf("transform %v -> %v, want vega -> goki", e.From, e.To)
	}
}

func TestAttackPattern_EnrageHalvesLoopDelay(t *testing.T) {
	f := newCombatFixture(t, 3)
	id, boss := addEngagedBoss(t, f, types.BossGoki, false)
	health, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)
	health.CurrentHealth = health.MaxHealth / 4

	f.attack.Update()
	if !boss.Enraged {
		t.Fatal("boss should be enraged below a third of its health")
	}
	for i := 0; i < 600 && boss.Phase == components.BossExecuting; i++ {
		f.scheduler.Update()
	}
	if boss.DelayFrames != config.BossLoopDelayFrames/2 {
		t.Errorf("loop delay = %d, want %d", boss.DelayFrames, config.BossLoopDelayFrames/2)
	}
}

func TestAttackPattern_NoPatterns(t *testing.T) {
	f := newCombatFixture(t, 0)
	_, boss := addEngagedBoss(t, f, types.BossBison, false)
	saved := config.PatternTable[types.BossBison]
	delete(config.PatternTable, types.BossBison)
	defer func() { config.PatternTable[types.BossBison] = saved }()

	f.attack.Update()
	if boss.Phase != components.BossIdle || boss.DelayFrames != config.BossLoopDelayFrames {
		t.Errorf("boss without patterns should stay idle, phase=%v delay=%d", boss.Phase, boss.DelayFrames)
	}
}
