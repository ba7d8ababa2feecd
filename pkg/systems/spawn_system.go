package systems

import (
	"errors"
	"fmt"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/sirupsen/logrus"
)

// ErrUnknownBossKind 关卡没有对应的 Boss
var ErrUnknownBossKind = errors.New("unknown boss kind")

// handoffStage 续关次数为 0 时，该关卡的 Boss 会交接为豪鬼
const handoffStage = 3

// bossSpawnY Boss 出场时的纵坐标（画面上方）
const bossSpawnY = -80.0

// SpawnCode 解析后的出怪代码
type SpawnCode struct {
	Empty    bool
	EnemyKey string
	Drop     types.ItemType
}

// ParseSpawnCode 解析两位出怪代码
// "00" 为空位；第一位映射为 enemy<char>，第二位为掉落道具
func ParseSpawnCode(code string) (SpawnCode, error) {
	if len(code) != 2 {
		return SpawnCode{}, fmt.Errorf("spawn code %q must have 2 characters", code)
	}
	if code == config.EmptySpawnCode {
		return SpawnCode{Empty: true}, nil
	}
	return SpawnCode{
		EnemyKey: "enemy" + code[:1],
		Drop:     types.ParseItemCode(code[1]),
	}, nil
}

// SpawnSystem 出怪调度
//
// 每隔固定帧数弹出一行出怪队列；队列耗尽后生成一次 Boss 并停止调度。
type SpawnSystem struct {
	em         *ecs.EntityManager
	clock      *SimulationClock
	catalog    game.Catalog
	state      *game.SimulationState
	dispatcher *event.Dispatcher

	queue          [][]string
	row            int
	accumulator    int
	interval       int
	bossAfterClear bool
	bossSpawned    bool
	log            *logrus.Entry
}

// NewSpawnSystem 创建出怪调度
//
// 参数:
//   - em: 实体管理器
//   - clock: 冻结时不累计帧数
//   - catalog: 属性目录
//   - state: 关卡状态（关卡索引、续关次数）
//   - dispatcher: 事件分发器
//   - stage: 关卡配置，提供出怪队列
//
// 返回:
//   - *SpawnSystem: 系统实例
func NewSpawnSystem(em *ecs.EntityManager, clock *SimulationClock, catalog game.Catalog,
	state *game.SimulationState, dispatcher *event.Dispatcher, stage *config.StageConfig) *SpawnSystem {
	s := &SpawnSystem{
		em:         em,
		clock:      clock,
		catalog:    catalog,
		state:      state,
		dispatcher: dispatcher,
		interval:   config.WaveIntervalFrames,
		log:        logger.For("SpawnSystem"),
	}
	if stage != nil {
		s.queue = stage.Waves
		s.bossAfterClear = stage.BossAfterClear
	}
	return s
}

// RemainingRows 队列中剩余的行数
func (s *SpawnSystem) RemainingRows() int {
	return len(s.queue) - s.row
}

// BossSpawned Boss 是否已经生成
func (s *SpawnSystem) BossSpawned() bool {
	return s.bossSpawned
}

// Update 累计帧数，到达间隔时调度一次
func (s *SpawnSystem) Update() {
	if s.bossSpawned || s.clock.IsFrozen() {
		return
	}
	s.accumulator++
	if s.accumulator < s.interval {
		return
	}
	s.accumulator = 0
	s.dispatch()
}

func (s *SpawnSystem) dispatch() {
	if s.row < len(s.queue) {
		s.spawnRow(s.row, s.queue[s.row])
		s.row++
		return
	}
	if s.bossAfterClear && s.liveEnemies() > 0 {
		s.log.Debug("waiting for field to clear before boss")
		return
	}
	if _, err := s.SpawnBoss(); err != nil {
		s.log.WithError(err).WithField("stage", s.state.StageIndex).Error("boss spawn aborted, retrying next interval")
	}
}

// spawnRow 按列生成一行敌人，缺失的模板只跳过该格
func (s *SpawnSystem) spawnRow(index int, row []string) {
	spawned, skipped := 0, 0
	for col, code := range row {
		parsed, err := ParseSpawnCode(code)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"row": index, "col": col}).Warn("invalid spawn code")
			skipped++
			continue
		}
		if parsed.Empty {
			continue
		}
		x := config.SpawnColumnWidth*float64(col) + config.SpawnColumnOffset
		if _, err := entities.NewEnemy(s.em, s.catalog, parsed.EnemyKey, parsed.Drop, x, config.SpawnY); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"row": index, "col": col}).Warn("enemy template missing, spawn skipped")
			skipped++
			continue
		}
		spawned++
	}
	s.log.WithFields(logrus.Fields{"row": index, "spawned": spawned, "skipped": skipped}).Debug("wave dispatched")
	s.dispatcher.Publish(event.WaveSpawnedEvent{Row: index, Spawned: spawned, Skipped: skipped})
}

// SpawnBoss 生成本关 Boss（每关只生成一次）
//
// 返回:
//   - ecs.EntityID: Boss 实体ID
//   - error: 关卡没有对应的 Boss 或模板缺失
func (s *SpawnSystem) SpawnBoss() (ecs.EntityID, error) {
	if s.bossSpawned {
		return s.state.BossID, nil
	}
	kind, err := types.BossKindForStage(s.state.StageIndex)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("%w: %v", ErrUnknownBossKind, err)
	}
	handoff := s.state.StageIndex == handoffStage && s.state.ContinueCount == 0

	id, err := entities.NewBoss(s.em, s.catalog, kind, config.CenterX, bossSpawnY, handoff)
	if err != nil {
		return ecs.InvalidEntity, err
	}
	s.bossSpawned = true
	s.state.BossID = id
	s.log.WithFields(logrus.Fields{"kind": kind, "handoff": handoff}).Info("boss spawned")
	s.dispatcher.Publish(event.BossSpawnedEvent{Entity: id, Kind: kind})
	return id, nil
}

func (s *SpawnSystem) liveEnemies() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.LifecycleComponent](s.em) {
		lc, _ := ecs.GetComponent[*components.LifecycleComponent](s.em, id)
		if !lc.DeadFlag && !s.em.IsMarkedForRemoval(id) {
			n++
		}
	}
	return n
}
