package systems

import (
	"testing"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

func newTestEnemy(t *testing.T, f *combatFixture, key string, x, y float64) ecs.EntityID {
	t.Helper()
	id, err := entities.NewEnemy(f.em, f.catalog, key, types.ItemNone, x, y)
	if err != nil {
		t.Fatalf("NewEnemy(%s) failed: %v", key, err)
	}
	return id
}

func TestLifecycle_DeathIsIdempotent(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeDead, event.TypeDeadComplete)
	id := newTestEnemy(t, f, "enemyA", 100, 100)

	if !f.lifecycle.ApplyDamage(id, 1, types.HitNormal) {
		t.Fatal("first lethal hit should report death")
	}
	if f.lifecycle.ApplyDamage(id, 1, types.HitNormal) {
		t.Error("second hit on a dead entity should be ignored")
	}
	if f.lifecycle.ApplyDamage(id, InfiniteDamage, types.HitInfinity) {
		t.Error("infinite hit on a dead entity should be ignored")
	}

	f.run(config.DefaultDeathFrames - 1)
	if log.count(event.TypeDead) != 1 {
		t.Errorf("Dead published %d times, want 1", log.count(event.TypeDead))
	}
	if log.count(event.TypeDeadComplete) != 0 {
		t.Fatal("DeadComplete published before the death animation finished")
	}
	if !f.em.Exists(id) {
		t.Fatal("entity removed before the death animation finished")
	}

	f.run(1)
	if log.count(event.TypeDeadComplete) != 1 {
		t.Errorf("DeadComplete published %d times, want 1", log.count(event.TypeDeadComplete))
	}
	if f.em.Exists(id) {
		t.Error("entity should be removed after DeadComplete")
	}
	if f.audio.count(game.CueExplosion) != 1 {
		t.Errorf("explosion cue played %d times, want 1", f.audio.count(game.CueExplosion))
	}
}

func TestLifecycle_HealthInvariant(t *testing.T) {
	f := newCombatFixture(t, 0)
	id := newTestEnemy(t, f, "enemyC", 100, 100)
	health, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)
	lc, _ := ecs.GetComponent[*components.LifecycleComponent](f.em, id)

	for _, dmg := range []int{1, 2, 0, -3, 1, 7, 4} {
		f.lifecycle.ApplyDamage(id, dmg, types.HitNormal)
		if health.CurrentHealth < 0 || health.CurrentHealth > health.MaxHealth {
			t.Fatalf("health %d out of [0, %d]", health.CurrentHealth, health.MaxHealth)
		}
		if lc.DeadFlag != (health.CurrentHealth == 0) {
			t.Fatalf("DeadFlag=%v with health %d", lc.DeadFlag, health.CurrentHealth)
		}
	}
	if !lc.DeadFlag || lc.State != types.StateDying {
		t.Errorf("expected dying entity, got DeadFlag=%v state=%v", lc.DeadFlag, lc.State)
	}
}

func TestLifecycle_DamagedStateAndEvent(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeDamaged)
	id := newTestEnemy(t, f, "enemyB", 100, 100)

	if f.lifecycle.ApplyDamage(id, 1, types.HitNormal) {
		t.Fatal("non-lethal hit reported death")
	}
	f.dispatcher.Flush()

	lc, _ := ecs.GetComponent[*components.LifecycleComponent](f.em, id)
	if lc.State != types.StateDamaged {
		t.Errorf("state = %v, want damaged", lc.State)
	}
	if !ecs.HasComponent[*components.FlashEffectComponent](f.em, id) {
		t.Error("damage should start a flash")
	}
	if log.count(event.TypeDamaged) != 1 {
		t.Fatalf("Damaged published %d times, want 1", log.count(event.TypeDamaged))
	}
	if got := log.events[event.TypeDamaged][0].(event.DamagedEvent).Remaining; got != 1 {
		t.Errorf("Remaining = %d, want 1", got)
	}
}

func TestLifecycle_InfiniteHealthOnlyFlashes(t *testing.T) {
	f := newCombatFixture(t, 0)
	id := newTestEnemy(t, f, "enemyE", 100, 100)

	if f.lifecycle.ApplyDamage(id, InfiniteDamage, types.HitInfinity) {
		t.Fatal("indestructible entity died")
	}
	health, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)
	if health.CurrentHealth != health.MaxHealth {
		t.Errorf("health changed to %d", health.CurrentHealth)
	}
	if f.audio.count(game.CueGuard) != 1 {
		t.Errorf("guard cue played %d times, want 1", f.audio.count(game.CueGuard))
	}
	if !ecs.HasComponent[*components.FlashEffectComponent](f.em, id) {
		t.Error("indestructible hit should flash")
	}
}

func TestLifecycle_PlayerInvulnerableAfterHit(t *testing.T) {
	f := newCombatFixture(t, 0)
	id := f.addPlayer()
	health, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)
	start := health.CurrentHealth

	f.lifecycle.ApplyDamage(id, 1, types.HitNormal)
	f.lifecycle.ApplyDamage(id, 1, types.HitNormal)
	if health.CurrentHealth != start-1 {
		t.Fatalf("health = %d, want %d (second hit during invulnerability)", health.CurrentHealth, start-1)
	}

	f.run(config.InvulnerableFrames)
	f.lifecycle.ApplyDamage(id, 1, types.HitNormal)
	if health.CurrentHealth != start-2 {
		t.Errorf("health = %d after invulnerability expired, want %d", health.CurrentHealth, start-2)
	}
}

func TestLifecycle_PlayerDeathEndsGame(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeGameOver)
	id := f.addPlayer()

	f.lifecycle.ApplyDamage(id, 100, types.HitNormal)
	f.run(config.DefaultDeathFrames)
	if log.count(event.TypeGameOver) != 1 {
		t.Errorf("GameOver published %d times, want 1", log.count(event.TypeGameOver))
	}
}

func TestLifecycle_BossDeathBursts(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeDeadComplete, event.TypeBossDanger)
	id, err := entities.NewBoss(f.em, f.catalog, types.BossBison, config.CenterX, config.BossEngageY, false)
	if err != nil {
		t.Fatalf("NewBoss failed: %v", err)
	}
	f.state.BossID = id
	health, _ := ecs.GetComponent[*components.HealthComponent](f.em, id)

	f.lifecycle.ApplyDamage(id, health.MaxHealth-config.DefaultCADamage, types.HitNormal)
	f.lifecycle.ApplyDamage(id, 1, types.HitNormal)
	f.dispatcher.Flush()
	if log.count(event.TypeBossDanger) != 1 {
		t.Errorf("BossDanger published %d times, want 1", log.count(event.TypeBossDanger))
	}

	f.lifecycle.ApplyDamage(id, health.CurrentHealth, types.HitNormal)
	boss, _ := ecs.GetComponent[*components.BossComponent](f.em, id)
	if boss.Phase != components.BossDefeated {
		t.Errorf("phase = %v, want defeated", boss.Phase)
	}

	total := (config.BossDeathBursts-1)*config.BossBurstIntervalFrames + config.ExplosionFrames
	f.run(total - 1)
	if log.count(event.TypeDeadComplete) != 0 {
		t.Fatal("boss removed before the last explosion finished")
	}
	f.run(1)
	if log.count(event.TypeDeadComplete) != 1 {
		t.Fatalf("DeadComplete published %d times, want 1", log.count(event.TypeDeadComplete))
	}
	if got := f.audio.count(game.CueExplosion); got != config.BossDeathBursts {
		t.Errorf("explosion cue played %d times, want %d", got, config.BossDeathBursts)
	}
	if got := f.audio.count(config.KOCue(types.BossBison)); got != 1 {
		t.Errorf("KO cue played %d times, want 1", got)
	}
}

func spawnShot(t *testing.T, f *combatFixture, template string, owner types.EntityRole, x, y float64) ecs.EntityID {
	t.Helper()
	id, err := f.bullets.Spawn(entities.BulletSpec{
		Template: template,
		Owner:    owner,
		X:        x,
		Y:        y,
		Angle:    entities.AngleDown,
	})
	if err != nil {
		t.Fatalf("Spawn(%s) failed: %v", template, err)
	}
	return id
}

func TestLifecycle_BossDeathFreezesWorld(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeDeadComplete, event.TypeGameOver)
	player := f.addPlayer()
	ppos, _ := ecs.GetComponent[*components.PositionComponent](f.em, player)
	health, _ := ecs.GetComponent[*components.HealthComponent](f.em, player)
	health.CurrentHealth = 1

	enemyShot := spawnShot(t, f, "enemyShot", types.RoleEnemy, 40, 40)
	playerShot := spawnShot(t, f, "playerNormal", types.RolePlayer, 80, 80)
	boss, err := entities.NewBoss(f.em, f.catalog, types.BossBison, config.CenterX, config.BossEngageY, false)
	if err != nil {
		t.Fatalf("NewBoss failed: %v", err)
	}
	f.state.BossID = boss

	f.lifecycle.ApplyDamage(boss, InfiniteDamage, types.HitNormal)
	if !f.clock.IsFrozen() {
		t.Fatal("boss defeat should freeze the world")
	}
	if !f.em.IsMarkedForRemoval(enemyShot) || !f.em.IsMarkedForRemoval(playerShot) {
		t.Error("bullets should be cleared on boss defeat")
	}

	// 击破演出期间出现在玩家身上的子弹不能造成伤害
	spawnShot(t, f, "enemyShot", types.RoleEnemy, ppos.X, ppos.Y)
	for i := 0; i < 300 && log.count(event.TypeDeadComplete) == 0; i++ {
		f.tick(false)
		if i == 10 && !f.clock.IsFrozen() {
			t.Fatal("freeze released before the defeat finished")
		}
	}
	f.run(5)

	if log.count(event.TypeDeadComplete) != 1 {
		t.Fatalf("DeadComplete published %d times, want 1", log.count(event.TypeDeadComplete))
	}
	if f.clock.IsFrozen() {
		t.Error("freeze should be released once the boss is removed")
	}
	if health.CurrentHealth != 1 || log.count(event.TypeGameOver) != 0 {
		t.Errorf("player hit during boss defeat: hp=%d gameOver=%d", health.CurrentHealth, log.count(event.TypeGameOver))
	}
}

func TestLifecycle_PurgeDuringBossDeath(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeDeadComplete)
	boss, err := entities.NewBoss(f.em, f.catalog, types.BossBison, config.CenterX, config.BossEngageY, false)
	if err != nil {
		t.Fatalf("NewBoss failed: %v", err)
	}
	f.state.BossID = boss

	f.lifecycle.ApplyDamage(boss, InfiniteDamage, types.HitNormal)
	for i := 0; i < 200 && f.audio.count(game.CueExplosion) < 2; i++ {
		f.tick(false)
	}
	if f.audio.count(game.CueExplosion) != 2 {
		t.Fatalf("explosions = %d before purge, want 2", f.audio.count(game.CueExplosion))
	}
	effects := len(ecs.GetEntitiesWith1[*components.LifetimeComponent](f.em))

	f.lifecycle.Purge(boss)
	f.run(60)

	if log.count(event.TypeDeadComplete) != 0 {
		t.Error("purged boss must not publish DeadComplete")
	}
	if got := f.audio.count(game.CueExplosion); got != 2 {
		t.Errorf("explosions = %d after purge, want 2", got)
	}
	if n := len(ecs.GetEntitiesWith1[*components.LifetimeComponent](f.em)); n > effects {
		t.Errorf("explosion effects grew from %d to %d after purge", effects, n)
	}
	if f.scheduler.Len() != 0 {
		t.Errorf("%d sequences still running", f.scheduler.Len())
	}
	if f.clock.IsFrozen() {
		t.Error("purge should release the boss defeat freeze")
	}
}

func TestLifecycle_PurgeRole(t *testing.T) {
	f := newCombatFixture(t, 0)
	player := f.addPlayer()
	for i := 0; i < 3; i++ {
		if _, err := f.bullets.Spawn(entities.BulletSpec{
			Template: "playerNormal",
			Owner:    types.RolePlayer,
			OwnerID:  player,
			X:        100,
			Y:        200,
			Angle:    entities.AngleUp,
		}); err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
	}
	enemy := newTestEnemy(t, f, "enemyA", 50, 50)

	if n := f.lifecycle.PurgeRole(types.RolePlayerBullet); n != 3 {
		t.Errorf("PurgeRole removed %d, want 3", n)
	}
	if n := f.lifecycle.PurgeRole(types.RolePlayerBullet); n != 0 {
		t.Errorf("second PurgeRole removed %d, want 0", n)
	}
	if f.em.IsMarkedForRemoval(enemy) {
		t.Error("PurgeRole removed an entity of another role")
	}
}
