package systems

import (
	"testing"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
)

// recordingAudio 记录播放过的音效
type recordingAudio struct {
	cues []string
}

func (a *recordingAudio) Play(cue string) { a.cues = append(a.cues, cue) }
func (a *recordingAudio) Stop(string)     {}

func (a *recordingAudio) count(cue string) int {
	n := 0
	for _, c := range a.cues {
		if c == cue {
			n++
		}
	}
	return n
}

// scriptedInput 测试中手动设置的输入
type scriptedInput struct {
	x       float64
	hasX    bool
	special bool
}

func (in *scriptedInput) TargetX() (float64, bool) { return in.x, in.hasX }

func (in *scriptedInput) SpecialPressed() bool {
	pressed := in.special
	in.special = false
	return pressed
}

// eventLog 按类型记录分发过的事件
type eventLog struct {
	events map[event.EventType][]event.Event
}

func newEventLog(d *event.Dispatcher, types ...event.EventType) *eventLog {
	l := &eventLog{events: make(map[event.EventType][]event.Event)}
	for _, et := range types {
		et := et
		d.Subscribe(et, func(e event.Event) {
			l.events[et] = append(l.events[et], e)
		})
	}
	return l
}

func (l *eventLog) count(et event.EventType) int {
	return len(l.events[et])
}

// loadTestCatalog 加载仓库中的属性目录
func loadTestCatalog(t *testing.T) *config.Catalog {
	t.Helper()
	catalog, err := config.LoadCatalog("../../data/catalog.yaml")
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	return catalog
}

// combatFixture 组装完整的系统集合，按关卡的固定顺序推进
type combatFixture struct {
	t          *testing.T
	em         *ecs.EntityManager
	clock      *SimulationClock
	scheduler  *StepScheduler
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	catalog    *config.Catalog
	audio      *recordingAudio
	input      *scriptedInput
	bullets    *entities.BulletFactory

	lifecycle *LifecycleSystem
	collision *CollisionSystem
	attack    *AttackPatternSystem
	capture   *CaptureSystem
	handoff   *HandoffSystem
	combo     *ComboGaugeSystem
	special   *SpecialAttackSystem
	player    *PlayerSystem
	enemy     *EnemySystem
	items     *ItemSystem
	movement  *MovementSystem
	timer     *BossTimerSystem
	flash     *FlashEffectSystem
	lifetime  *LifetimeSystem
	spawn     *SpawnSystem
}

func newCombatFixture(t *testing.T, stage int) *combatFixture {
	t.Helper()
	f := &combatFixture{
		t:          t,
		em:         ecs.NewEntityManager(),
		clock:      NewSimulationClock(),
		dispatcher: event.NewDispatcher(),
		state:      game.NewSimulationState(stage, 0, 1),
		catalog:    loadTestCatalog(t),
		audio:      &recordingAudio{},
		input:      &scriptedInput{},
	}
	f.scheduler = NewStepScheduler(f.clock)
	f.bullets = entities.NewBulletFactory(f.em, f.catalog)

	f.lifecycle = NewLifecycleSystem(f.em, f.clock, f.scheduler, f.dispatcher, f.state, f.audio, f.catalog.CADamage())
	f.collision = NewCollisionSystem(f.em, f.clock, f.lifecycle, f.dispatcher, f.state)
	f.attack = NewAttackPatternSystem(f.em, f.clock, f.scheduler, f.lifecycle, f.dispatcher, f.state, f.catalog, f.bullets, f.audio)
	f.capture = NewCaptureSystem(f.em, f.clock, f.scheduler, f.lifecycle, f.dispatcher, f.state, f.audio)
	f.handoff = NewHandoffSystem(f.em, f.clock, f.scheduler, f.lifecycle, f.dispatcher, f.state, f.catalog)
	f.combo = NewComboGaugeSystem(f.clock, f.dispatcher, f.state, f.audio)
	f.special = NewSpecialAttackSystem(f.em, f.clock, f.scheduler, f.lifecycle, f.collision, f.dispatcher, f.state, f.input, f.audio, f.catalog.CADamage())
	f.player = NewPlayerSystem(f.em, f.clock, f.lifecycle, f.state, f.catalog, f.bullets, f.input, f.audio)
	f.enemy = NewEnemySystem(f.em, f.clock, f.lifecycle, f.state, f.bullets)
	f.items = NewItemSystem(f.em, f.dispatcher, f.catalog, f.audio)
	f.movement = NewMovementSystem(f.em, f.clock, f.lifecycle, f.state)
	f.timer = NewBossTimerSystem(f.clock, f.dispatcher, f.state)
	f.flash = NewFlashEffectSystem(f.em)
	f.lifetime = NewLifetimeSystem(f.em)

	stageCfg, _ := f.catalog.Stage(stage)
	f.spawn = NewSpawnSystem(f.em, f.clock, f.catalog, f.state, f.dispatcher, stageCfg)
	return f
}

// addPlayer 在画面下方生成玩家
func (f *combatFixture) addPlayer() ecs.EntityID {
	id := entities.NewPlayer(f.em, f.catalog, config.CenterX, config.ScreenHeight-40)
	f.state.PlayerID = id
	return id
}

// tick 按关卡顺序推进一帧；withSpawn 为 false 时不运行出怪调度
func (f *combatFixture) tick(withSpawn bool) {
	f.clock.Tick()
	f.scheduler.Update()
	f.attack.Update()
	f.enemy.Update()
	f.player.Update()
	f.special.Update()
	f.movement.Update()
	f.collision.Update()
	f.dispatcher.Flush()
	f.combo.Update()
	f.timer.Update()
	if withSpawn {
		f.spawn.Update()
	}
	f.flash.Update()
	f.lifetime.Update()
	f.em.RemoveMarkedEntities()
}

func (f *combatFixture) run(n int) {
	for i := 0; i < n; i++ {
		f.tick(false)
	}
}
