package game

import (
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/types"
)

// Transform 渲染节点的显示参数
type Transform struct {
	X, Y    float64
	Scale   float64
	Alpha   float64
	Visible bool
	Flash   float64 // 受击闪白强度，0 表示无
}

// Rect 世界坐标矩形
type Rect struct {
	X, Y, W, H float64
}

// Renderer 渲染协作方
// 核心只把节点当作以实体 ID 为键的不透明句柄
type Renderer interface {
	CreateNode(id ecs.EntityID, role types.EntityRole, template string)
	DestroyNode(id ecs.EntityID)
	SetAnimation(id ecs.EntityID, name string)
	SetTransform(id ecs.EntityID, t Transform)
	Bounds(id ecs.EntityID) (Rect, bool)
}

// AudioPlayer 音频协作方
// 调用不阻塞；未知的音效名静默忽略
type AudioPlayer interface {
	Play(cue string)
	Stop(cue string)
}

// InputSource 输入协作方
type InputSource interface {
	// TargetX 玩家水平目标位置，ok 为 false 表示本帧没有输入
	TargetX() (x float64, ok bool)
	// SpecialPressed 本帧是否请求发动 CA
	SpecialPressed() bool
}

// Catalog 只读属性目录
// *config.Catalog 实现了该接口
type Catalog interface {
	PlayerTemplate() *config.PlayerTemplate
	EnemyTemplate(key string) (*config.EnemyTemplate, bool)
	BossTemplate(kind types.BossKind) (*config.BossTemplate, bool)
	BulletTemplate(key string) (*config.BulletTemplate, bool)
	ItemTemplate(item types.ItemType) (*config.ItemTemplate, bool)
	Stage(index int) (*config.StageConfig, bool)
	StageCount() int
	CADamage() int
}

// HighScoreStore 最高分持久化协作方，只在关卡结算时调用
type HighScoreStore interface {
	HighScore() int
	Submit(record ScoreRecord) (bool, error)
}

// NopRenderer 不做任何事的渲染器（无界面运行和测试使用）
type NopRenderer struct{}

func (NopRenderer) CreateNode(ecs.EntityID, types.EntityRole, string) {}
func (NopRenderer) DestroyNode(ecs.EntityID)                          {}
func (NopRenderer) SetAnimation(ecs.EntityID, string)                 {}
func (NopRenderer) SetTransform(ecs.EntityID, Transform)              {}
func (NopRenderer) Bounds(ecs.EntityID) (Rect, bool)                  { return Rect{}, false }

// NopAudio 静音
type NopAudio struct{}

func (NopAudio) Play(string) {}
func (NopAudio) Stop(string) {}

// NopInput 没有输入
type NopInput struct{}

func (NopInput) TargetX() (float64, bool) { return 0, false }
func (NopInput) SpecialPressed() bool     { return false }

// Collaborators 关卡运行所需的外部协作方
type Collaborators struct {
	Renderer   Renderer
	Audio      AudioPlayer
	Input      InputSource
	Catalog    Catalog
	HighScores HighScoreStore
}

// WithDefaults 为未设置的协作方填入空实现（Catalog 除外）
func (c Collaborators) WithDefaults() Collaborators {
	if c.Renderer == nil {
		c.Renderer = NopRenderer{}
	}
	if c.Audio == nil {
		c.Audio = NopAudio{}
	}
	if c.Input == nil {
		c.Input = NopInput{}
	}
	if c.HighScores == nil {
		c.HighScores = NewHighScoreManager(nil)
	}
	return c
}

var _ Catalog = (*config.Catalog)(nil)
