package systems

import (
	"testing"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

// kill 通过事件队列登记一次敌人击杀
func (f *combatFixture) kill(score, gauge int) {
	f.dispatcher.Publish(event.DeadEvent{Role: types.RoleEnemy, ScoreValue: score, GaugeValue: gauge})
}

// comboTick 只推进连击相关的部分
func (f *combatFixture) comboTick() {
	f.clock.Tick()
	f.dispatcher.Flush()
	f.combo.Update()
}

func TestCombo_ScoreUsesMultiplierAfterIncrement(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeScore)

	for i := 0; i < 11; i++ {
		f.kill(100, 0)
	}
	f.comboTick()

	// 前 10 次倍率 1，第 11 次倍率 2
	if want := 10*100 + 200; f.state.Score != want {
		t.Errorf("score = %d, want %d", f.state.Score, want)
	}
	if f.state.Combo.Count != 11 || f.state.Combo.MaxCount != 11 {
		t.Errorf("combo = %+v, want count 11 max 11", f.state.Combo)
	}
	events := log.events[event.TypeScore]
	if len(events) != 11 {
		t.Fatalf("Score published %d times, want 11", len(events))
	}
	if m := events[10].(event.ScoreEvent).Multiplier; m != 1 {
		t.Errorf("popup multiplier for the 11th kill = %d, want 1 (before increment)", m)
	}
}

func TestCombo_DecayAfterWindow(t *testing.T) {
	f := newCombatFixture(t, 0)
	f.kill(100, 0)
	f.kill(100, 0)
	f.comboTick() // 击杀帧 T

	for i := 1; i < config.ComboWindowFrames; i++ {
		f.comboTick()
	}
	if f.state.Combo.Count != 2 {
		t.Fatalf("combo reset early: count = %d at T+%d", f.state.Combo.Count, config.ComboWindowFrames-1)
	}

	f.comboTick() // T + window
	f.comboTick() // T + window + 1
	if f.state.Combo.Count != 0 {
		t.Errorf("count = %d at T+window+1, want 0", f.state.Combo.Count)
	}
	if f.state.Combo.MaxCount != 2 {
		t.Errorf("maxCount = %d, want 2", f.state.Combo.MaxCount)
	}
	if f.state.Combo.Multiplier() != 1 {
		t.Errorf("multiplier = %d after reset, want 1", f.state.Combo.Multiplier())
	}
}

func TestCombo_KillResetsWindow(t *testing.T) {
	f := newCombatFixture(t, 0)
	f.kill(100, 0)
	f.comboTick()
	for i := 0; i < config.ComboWindowFrames-5; i++ {
		f.comboTick()
	}
	f.kill(100, 0)
	f.comboTick()
	for i := 0; i < config.ComboWindowFrames-1; i++ {
		f.comboTick()
	}
	if f.state.Combo.Count != 2 {
		t.Errorf("count = %d, want 2 (window restarted by the second kill)", f.state.Combo.Count)
	}
}

func TestCombo_DecayPausedWhileFrozen(t *testing.T) {
	f := newCombatFixture(t, 0)
	f.kill(100, 0)
	f.comboTick()

	f.clock.Freeze(FreezeSpecial)
	for i := 0; i < config.ComboWindowFrames*2; i++ {
		f.comboTick()
	}
	if f.state.Combo.Count != 1 {
		t.Errorf("combo decayed while frozen: count = %d", f.state.Combo.Count)
	}
}

func TestCombo_IgnoresNonHostileDeaths(t *testing.T) {
	f := newCombatFixture(t, 0)
	f.dispatcher.Publish(event.DeadEvent{Role: types.RoleEnemyBullet, ScoreValue: 100, GaugeValue: 10})
	f.dispatcher.Publish(event.DeadEvent{Role: types.RolePlayer, ScoreValue: 100, GaugeValue: 10})
	f.comboTick()
	if f.state.Score != 0 || f.state.Combo.Count != 0 || f.state.Gauge.Value != 0 {
		t.Errorf("non-hostile deaths changed state: %+v %+v", f.state.Combo, f.state.Gauge)
	}
}

func TestGauge_TriggersReadyAndClamps(t *testing.T) {
	f := newCombatFixture(t, 0)
	log := newEventLog(f.dispatcher, event.TypeSpecialReady)

	f.kill(0, 60)
	f.comboTick()
	if f.state.Gauge.Ready {
		t.Fatal("ready before the gauge is full")
	}
	f.kill(0, 60)
	f.kill(0, 60)
	f.comboTick()

	if f.state.Gauge.Value != config.GaugeMax || !f.state.Gauge.Ready {
		t.Errorf("gauge = %+v, want full and ready", f.state.Gauge)
	}
	if log.count(event.TypeSpecialReady) != 1 {
		t.Errorf("SpecialReady published %d times, want 1", log.count(event.TypeSpecialReady))
	}
	if f.audio.count(game.CueCaReady) != 1 {
		t.Errorf("ready cue played %d times, want 1", f.audio.count(game.CueCaReady))
	}
}

func TestGauge_FrozenWhileFiring(t *testing.T) {
	f := newCombatFixture(t, 0)
	f.state.Gauge.Firing = true
	f.kill(100, 50)
	f.comboTick()
	if f.state.Gauge.Value != 0 {
		t.Errorf("gauge = %d while firing, want 0", f.state.Gauge.Value)
	}
	if f.state.Combo.Count != 1 || f.state.Score != 100 {
		t.Error("kills during the special still count for combo and score")
	}
}
