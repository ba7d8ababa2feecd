package config

import "math"

// 逻辑帧率与画面尺寸
const (
	// TicksPerSecond 逻辑更新频率，所有时间量都按此换算为帧
	TicksPerSecond = 30

	ScreenWidth  = 256
	ScreenHeight = 480
	CenterX      = ScreenWidth / 2.0

	// OffscreenMargin 实体超出画面该距离后被清除
	OffscreenMargin = 64.0
)

// 出怪调度
const (
	// WaveIntervalFrames 两次出怪之间的帧数
	WaveIntervalFrames = 80
	// SpawnColumnWidth 出怪行中每一列的水平间距
	SpawnColumnWidth = 32.0
	// SpawnColumnOffset 第一列的水平偏移
	SpawnColumnOffset = 16.0
	// SpawnY 敌人出场的纵坐标（画面上方）
	SpawnY = -32.0
	// EmptySpawnCode 空位
	EmptySpawnCode = "00"
)

// 连击与 CA
const (
	// ComboCreditsPerTier 每多少连击提升一级倍率
	ComboCreditsPerTier = 10
	// GaugeMax CA 槽上限
	GaugeMax = 100
	// DefaultCADamage 目录未配置时 CA 对每个目标的伤害
	DefaultCADamage = 30
)

// Boss
const (
	// BossEngageY Boss 交战高度
	BossEngageY = ScreenHeight / 4.0
	// FangEngageY Fang 的交战高度更靠上
	FangEngageY = 48.0
	// BossEntrySpeed Boss 入场速度（像素/帧）
	BossEntrySpeed = 2.0
	// FangEntrySpeed Fang 入场速度（像素/帧）
	FangEntrySpeed = 1.4
	// BossDeathBursts Boss 死亡时的爆炸次数
	BossDeathBursts = 5
	// BossTimerSeconds Boss 战倒计时
	BossTimerSeconds = 99
	// CaptureHits 瞬狱杀的连击次数
	CaptureHits = 10
	// CaptureDamage 瞬狱杀对玩家的伤害
	CaptureDamage = 100
)

// 玩家
const (
	// PlayerStartY 玩家所在的纵坐标
	PlayerStartY = ScreenHeight - 40.0
	// SpeedUpBoost 高速道具减少的射击间隔帧数
	SpeedUpBoost = 15
	// ThreeWaySpread 3way 模式左右子弹的偏转角（度）
	ThreeWaySpread = 15.0
	// PiercingHitCadence 贯穿弹对同一目标的伤害间隔帧数
	PiercingHitCadence = 15
	// PiercingHitCap 贯穿弹对同一目标的最多伤害次数
	PiercingHitCap = 2
	// EnemyShootCutoff 敌人低于此高度后停止射击
	EnemyShootCutoff = ScreenHeight - 100.0
)

// 以帧为单位的时长
var (
	ComboWindowFrames        = Seconds(3)
	BossLoopDelayFrames      = Seconds(0.5)
	BossBurstIntervalFrames  = Seconds(0.25)
	ExplosionFrames          = Seconds(0.5)
	DefaultDeathFrames       = Seconds(0.5)
	BulletDeathFrames        = Seconds(0.2)
	HitEffectFrames          = Seconds(0.2)
	FlashFrames              = Seconds(0.1)
	InvulnerableFrames       = Seconds(0.6)
	BarrierFrames            = Seconds(5)
	CaptureHitIntervalFrames = Seconds(0.05)
	CaptureDamageAtFrames    = Seconds(2.7)
	CutInFrames              = Seconds(1.9)
	SweepFrames              = Seconds(0.3)
	SplashStaggerFrames      = maxInt(1, Seconds(0.005))
	SpecialRecoverFrames     = Seconds(1.0)
	HandoffFadeOutFrames     = Seconds(1.0)
	HandoffFadeInFrames      = Seconds(0.5)
	HandoffSwapFrames        = Seconds(0.5)
)

// Seconds 将秒换算为逻辑帧数（四舍五入）
func Seconds(s float64) int {
	return int(math.Round(s * TicksPerSecond))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
