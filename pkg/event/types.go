package event

import (
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/types"
)

const (
	TypeDamaged       EventType = "Damaged"
	TypeDead          EventType = "Dead"
	TypeDeadComplete  EventType = "DeadComplete"
	TypeScore         EventType = "Score"
	TypeWaveSpawned   EventType = "WaveSpawned"
	TypeBossSpawned   EventType = "BossSpawned"
	TypeBossEngaged   EventType = "BossEngaged"
	TypeBossDanger    EventType = "BossDanger"
	TypeBossTransform EventType = "BossTransform"
	TypeCapture       EventType = "Capture"
	TypeItemPicked    EventType = "ItemPicked"
	TypeSpecialReady  EventType = "SpecialReady"
	TypeSpecialFired  EventType = "SpecialFired"
	TypeSpecialDone   EventType = "SpecialDone"
	TypeTimeOver      EventType = "TimeOver"
	TypeGameOver      EventType = "GameOver"
	TypeMusic         EventType = "Music"
)

// DamagedEvent 实体受到伤害但未死亡
type DamagedEvent struct {
	Entity    ecs.EntityID
	Role      types.EntityRole
	Amount    int
	HitType   types.HitType
	Remaining int
}

func (DamagedEvent) Type() EventType { return TypeDamaged }

// DeadEvent 实体进入死亡状态
// 在死亡动画开始前立即发布，计分和掉落逻辑据此运行
type DeadEvent struct {
	Entity      ecs.EntityID
	Role        types.EntityRole
	TemplateKey string
	ScoreValue  int
	GaugeValue  int
	ItemDrop    types.ItemType
	X, Y        float64
}

func (DeadEvent) Type() EventType { return TypeDead }

// DeadCompleteEvent 死亡序列结束，实体即将从注册表移除
type DeadCompleteEvent struct {
	Entity ecs.EntityID
	Role   types.EntityRole
}

func (DeadCompleteEvent) Type() EventType { return TypeDeadComplete }

// ScoreEvent 击杀得分（用于分数弹出显示）
type ScoreEvent struct {
	Entity     ecs.EntityID
	Points     int
	Multiplier int
	X, Y       float64
}

func (ScoreEvent) Type() EventType { return TypeScore }

// WaveSpawnedEvent 一行敌人出场
type WaveSpawnedEvent struct {
	Row     int
	Spawned int
	Skipped int
}

func (WaveSpawnedEvent) Type() EventType { return TypeWaveSpawned }

// BossSpawnedEvent Boss 出场
type BossSpawnedEvent struct {
	Entity ecs.EntityID
	Kind   types.BossKind
}

func (BossSpawnedEvent) Type() EventType { return TypeBossSpawned }

// BossEngagedEvent Boss 到达交战位置
type BossEngagedEvent struct {
	Entity ecs.EntityID
	Kind   types.BossKind
}

func (BossEngagedEvent) Type() EventType { return TypeBossEngaged }

// BossDangerEvent Boss 血量低于 CA 伤害（一次性）
type BossDangerEvent struct {
	Entity ecs.EntityID
}

func (BossDangerEvent) Type() EventType { return TypeBossDanger }

// BossTransformEvent Boss 请求身份交接
type BossTransformEvent struct {
	Entity ecs.EntityID
	From   types.BossKind
	To     types.BossKind
}

func (BossTransformEvent) Type() EventType { return TypeBossTransform }

// CaptureEvent Boss 抓住玩家
type CaptureEvent struct {
	Boss   ecs.EntityID
	Player ecs.EntityID
}

func (CaptureEvent) Type() EventType { return TypeCapture }

// ItemPickedEvent 玩家拾取道具
type ItemPickedEvent struct {
	Player ecs.EntityID
	Item   types.ItemType
}

func (ItemPickedEvent) Type() EventType { return TypeItemPicked }

// SpecialReadyEvent CA 槽已满
type SpecialReadyEvent struct{}

func (SpecialReadyEvent) Type() EventType { return TypeSpecialReady }

// SpecialFiredEvent CA 开始发动
type SpecialFiredEvent struct{}

func (SpecialFiredEvent) Type() EventType { return TypeSpecialFired }

// SpecialDoneEvent CA 序列结束
type SpecialDoneEvent struct {
	Targets int
}

func (SpecialDoneEvent) Type() EventType { return TypeSpecialDone }

// TimeOverEvent Boss 倒计时归零
type TimeOverEvent struct{}

func (TimeOverEvent) Type() EventType { return TypeTimeOver }

// GameOverEvent 玩家死亡序列结束
type GameOverEvent struct {
	Player ecs.EntityID
}

func (GameOverEvent) Type() EventType { return TypeGameOver }

// MusicEvent 请求切换背景音乐，由关卡停止旧曲目并记录新曲目
type MusicEvent struct {
	Cue string
}

func (MusicEvent) Type() EventType { return TypeMusic }
