package systems

import (
	"testing"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

func startHandoff(t *testing.T) (*combatFixture, ecs.EntityID, *eventLog) {
	t.Helper()
	f := newCombatFixture(t, 3)
	log := newEventLog(f.dispatcher, event.TypeBossSpawned, event.TypeMusic)
	vega, boss := addEngagedBoss(t, f, types.BossVega, true)
	boss.EngagedFrames = 3 * config.TicksPerSecond

	f.attack.Update()
	f.dispatcher.Flush()
	if !f.handoff.Active() || !f.clock.IsFrozen() {
		t.Fatal("handoff did not start")
	}
	return f, vega, log
}

func TestHandoff_VegaBecomesGoki(t *testing.T) {
	f, vega, log := startHandoff(t)
	pos, _ := ecs.GetComponent[*components.PositionComponent](f.em, vega)
	x, y := pos.X, pos.Y

	f.run(config.HandoffFadeOutFrames / 2)
	anim, _ := ecs.GetComponent[*components.AnimationComponent](f.em, vega)
	if anim.Alpha <= 0 || anim.Alpha >= 1 {
		t.Errorf("alpha = %v halfway through the fade", anim.Alpha)
	}

	for i := 0; i < 200 && f.handoff.Active(); i++ {
		f.tick(false)
	}
	if f.handoff.Active() || f.clock.IsFrozen() {
		t.Fatal("handoff never finished")
	}
	if f.em.Exists(vega) {
		t.Error("original boss should be removed")
	}

	goki := f.state.BossID
	boss, ok := ecs.GetComponent[*components.BossComponent](f.em, goki)
	if !ok || boss.Kind != types.BossGoki {
		t.Fatalf("current boss is not goki: %+v", boss)
	}
	if boss.Phase == components.BossEntering {
		t.Error("replacement should already be engaged")
	}
	gpos, _ := ecs.GetComponent[*components.PositionComponent](f.em, goki)
	if gpos.X != x || gpos.Y != y {
		t.Errorf("goki at (%v,%v), want (%v,%v)", gpos.X, gpos.Y, x, y)
	}
	ganim, _ := ecs.GetComponent[*components.AnimationComponent](f.em, goki)
	if ganim.Alpha != 1 {
		t.Errorf("goki alpha = %v after fade in", ganim.Alpha)
	}
	if log.count(event.TypeMusic) != 1 {
		t.Fatalf("music requested %d times", log.count(event.TypeMusic))
	}
	if cue := log.events[event.TypeMusic][0].(event.MusicEvent).Cue; cue != game.CueGokiBGM {
		t.Errorf("music cue = %q, want %q", cue, game.CueGokiBGM)
	}
	if log.count(event.TypeBossSpawned) != 1 {
		t.Errorf("BossSpawned published %d times", log.count(event.TypeBossSpawned))
	}
	if boss.HandoffPending {
		t.Error("goki must not hand off again")
	}
}

func TestHandoff_AbortsWhenBossRemoved(t *testing.T) {
	f, vega, log := startHandoff(t)
	f.run(5)

	f.lifecycle.Purge(vega)
	f.tick(false)
	for i := 0; i < 60 && f.handoff.Active(); i++ {
		f.tick(false)
	}
	if f.handoff.Active() || f.clock.IsFrozen() {
		t.Error("handoff should abort and release the freeze")
	}
	if log.count(event.TypeMusic) != 0 {
		t.Error("aborted handoff should not switch music")
	}
}

func TestHandoff_FailedSwapRestoresOriginal(t *testing.T) {
	f, vega, log := startHandoff(t)
	delete(f.catalog.Bosses, types.BossGoki.String())

	for i := 0; i < 200 && f.handoff.Active(); i++ {
		f.tick(false)
	}
	if f.handoff.Active() || f.clock.IsFrozen() {
		t.Fatal("failed handoff should release the freeze")
	}
	if !f.em.Exists(vega) || f.state.BossID != vega {
		t.Fatal("original boss should stay in play")
	}
	anim, _ := ecs.GetComponent[*components.AnimationComponent](f.em, vega)
	if anim.Alpha != 1 {
		t.Errorf("original boss alpha = %v, want 1", anim.Alpha)
	}
	if log.count(event.TypeMusic) != 0 {
		t.Error("failed handoff should not switch music")
	}
	if log.count(event.TypeBossSpawned) != 0 {
		t.Error("no replacement should be announced")
	}
}

func TestHandoff_IgnoresStaleEvent(t *testing.T) {
	f := newCombatFixture(t, 3)
	vega, _ := addEngagedBoss(t, f, types.BossVega, true)
	f.state.BossID = ecs.InvalidEntity

	f.dispatcher.Publish(event.BossTransformEvent{Entity: vega, From: types.BossVega, To: types.BossGoki})
	f.dispatcher.Flush()
	if f.handoff.Active() || f.clock.IsFrozen() {
		t.Error("handoff for a boss that is not current should be ignored")
	}
}
