package config

import "github.com/decker502/shmup/pkg/types"

// StepKind 攻击步骤类型
type StepKind int

const (
	StepWait StepKind = iota
	StepAnim
	StepCue
	StepMove
	StepTeleport
	StepEmit
)

// CoordMode 步骤目标坐标的求值方式
// 实际坐标在步骤开始时根据 Boss 当前位置、命中框和玩家位置求出
type CoordMode int

const (
	CoordKeep   CoordMode = iota // 保持当前值
	CoordAbs                     // Value
	CoordEngage                  // 交战高度 + Value
	CoordBottom                  // 命中框底边贴近画面底部，再向上 Value
	CoordPlayer                  // 玩家 X（夹在活动范围内）
	CoordRandom                  // [Value, Max] 内随机；X 轴 Max 为 0 时取活动范围
	CoordMinX                    // 活动范围左端 + Value
	CoordMaxX                    // 活动范围右端 - Value
	CoordCenter                  // 画面中线 + Value
	CoordAbove                   // 画面上方（完全不可见）
)

// Coord 坐标表达式
type Coord struct {
	Mode  CoordMode
	Value float64
	Max   float64
}

// Formation 子弹发射队形
type Formation int

const (
	// FormationSingle 每个发射口一发，方向取 Angles 或默认向下/瞄准玩家
	FormationSingle Formation = iota
	// FormationRing 围绕 Boss 的一圈，Count 发，半径 Radius
	FormationRing
	// FormationSwarm 从命中框底部放出 Count 个延迟启动的追踪弹
	FormationSwarm
	// FormationCone 在 [MinAngle, MaxAngle] 内随机方向
	FormationCone
)

// EmitDef 发射参数
type EmitDef struct {
	Slot      string // Boss 子弹槽位（A/B/C）
	Formation Formation
	Count     int
	Angles    []float64 // 度，0 为向右，90 为向下
	Emitters  []float64 // 发射口相对 Boss 的水平偏移
	Radius    float64
	MinAngle  float64
	MaxAngle  float64
	Stagger   int // Swarm 中相邻弹体的启动间隔帧数
}

// StepDef 单个攻击步骤
type StepDef struct {
	Kind   StepKind
	Frames int
	Anim   string
	Cue    string
	X, Y   Coord
	Emit   *EmitDef
}

// PatternDef 一种攻击模式
type PatternDef struct {
	Name   string
	Weight float64
	Steps  []StepDef
}

// 步骤构造函数

func Wait(seconds float64) StepDef { return StepDef{Kind: StepWait, Frames: Seconds(seconds)} }
func Anim(name string) StepDef     { return StepDef{Kind: StepAnim, Anim: name} }
func Cue(name string) StepDef      { return StepDef{Kind: StepCue, Cue: name} }

func MoveTo(x, y Coord, seconds float64) StepDef {
	return StepDef{Kind: StepMove, X: x, Y: y, Frames: Seconds(seconds)}
}

func Teleport(x, y Coord) StepDef { return StepDef{Kind: StepTeleport, X: x, Y: y} }

func Emit(def EmitDef) StepDef { return StepDef{Kind: StepEmit, Emit: &def} }

// 坐标构造函数

func Keep() Coord                     { return Coord{Mode: CoordKeep} }
func Abs(v float64) Coord             { return Coord{Mode: CoordAbs, Value: v} }
func Engage(offset float64) Coord     { return Coord{Mode: CoordEngage, Value: offset} }
func Bottom(margin float64) Coord     { return Coord{Mode: CoordBottom, Value: margin} }
func PlayerX() Coord                  { return Coord{Mode: CoordPlayer} }
func RandomX() Coord                  { return Coord{Mode: CoordRandom} }
func RandomIn(min, max float64) Coord { return Coord{Mode: CoordRandom, Value: min, Max: max} }
func MinX(offset float64) Coord       { return Coord{Mode: CoordMinX, Value: offset} }
func MaxX(offset float64) Coord       { return Coord{Mode: CoordMaxX, Value: offset} }
func Center() Coord                   { return Coord{Mode: CoordCenter} }
func Above() Coord                    { return Coord{Mode: CoordAbove} }

func single(slot string) EmitDef { return EmitDef{Slot: slot, Formation: FormationSingle} }

func fan(slot string, angle float64, emitters ...float64) EmitDef {
	return EmitDef{Slot: slot, Formation: FormationSingle, Angles: []float64{angle}, Emitters: emitters}
}

// concat 拼接步骤片段
func concat(parts ...[]StepDef) []StepDef {
	out := make([]StepDef, 0, 16)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func steps(s ...StepDef) []StepDef { return s }

// repeat 重复一个步骤片段 n 次
func repeat(n int, part []StepDef) []StepDef {
	out := make([]StepDef, 0, n*len(part))
	for i := 0; i < n; i++ {
		out = append(out, part...)
	}
	return out
}

var sagatHighShot = steps(
	Anim("charge"), Wait(0.25),
	Anim("shootHigh"), Cue("boss_sagat_voice_tama0"), Emit(single("A")),
)

var vegaWarp = steps(Cue("boss_vega_voice_warp"), Wait(0.1))

var fangBeamEmitters = []float64{-10, 10}

// PatternTable 各 Boss 的攻击模式表
// 权重之和不必为 1，选择时按比例归一
var PatternTable = map[types.BossKind][]PatternDef{
	types.BossBison: {
		{Name: "psycho_crusher", Weight: 0.6, Steps: steps(
			MoveTo(RandomX(), Keep(), 0.3),
			Anim("attack"),
			MoveTo(Keep(), Engage(-10), 0.5),
			Cue("boss_bison_voice_punch"),
			MoveTo(Keep(), Bottom(10), 0.35),
			MoveTo(Keep(), Engage(0), 0.2),
			Wait(0.05), Anim("idle"),
			Wait(0.5),
		)},
		{Name: "head_stomp_left", Weight: 0.2, Steps: stompSteps(MinX(0), MaxX(0))},
		{Name: "head_stomp_right", Weight: 0.2, Steps: stompSteps(MaxX(0), MinX(0))},
	},
	types.BossBarlog: {
		{Name: "random_move", Weight: 0.3, Steps: steps(
			Anim("idle"),
			MoveTo(RandomX(), RandomIn(60, ScreenHeight-340), 0.6),
			Wait(0.1), Anim("stand"),
			Wait(1.0),
		)},
		{Name: "crystal_flash", Weight: 0.5, Steps: steps(
			Anim("idle"),
			MoveTo(PlayerX(), Keep(), 0.3),
			Wait(0.4), Anim("shoot"), Cue("boss_barlog_voice_tama"), Emit(single("A")),
			Wait(0.5), Anim("stand"),
			Wait(1.0),
		)},
		{Name: "flying_barcelona", Weight: 0.2, Steps: steps(
			Anim("idle"),
			MoveTo(PlayerX(), Keep(), 0.5),
			Anim("charge"),
			Wait(0.7), Anim("attack"), Cue("boss_barlog_voice_barcelona"),
			MoveTo(Keep(), Engage(-70), 0.3),
			Wait(0.1),
			MoveTo(Keep(), Bottom(10), 0.6),
			MoveTo(Keep(), Engage(0), 0.2),
			Anim("stand"),
			Wait(1.0),
		)},
	},
	types.BossSagat: {
		{Name: "tiger_sweep", Weight: 0.3, Steps: concat(
			steps(MoveTo(MinX(20), Keep(), 0.25)), sagatHighShot,
			steps(MoveTo(MinX(50), Keep(), 0.25)), sagatHighShot,
			steps(MoveTo(Center(), Keep(), 0.25)), sagatHighShot,
			steps(MoveTo(MaxX(50), Keep(), 0.25)), sagatHighShot,
			steps(MoveTo(MaxX(20), Keep(), 0.25)), sagatHighShot,
			steps(Wait(0.3), Anim("idle"), Wait(1.0)),
		)},
		{Name: "tiger_rapid", Weight: 0.3, Steps: concat(
			steps(MoveTo(PlayerX(), Keep(), 0.25)),
			repeat(4, concat(sagatHighShot, steps(Wait(0.2)))),
			steps(Wait(0.1), Anim("idle"), Wait(1.0)),
		)},
		{Name: "ground_tiger", Weight: 0.2, Steps: steps(
			MoveTo(PlayerX(), Keep(), 0.25),
			Anim("charge"),
			Wait(1.3), Anim("shootLow"), Cue("boss_sagat_voice_tama1"), Emit(single("B")),
			Wait(0.3), Anim("idle"),
			Wait(1.0),
		)},
		{Name: "tiger_knee", Weight: 0.2, Steps: steps(
			MoveTo(PlayerX(), Engage(-20), 0.4),
			Anim("knee"),
			Wait(0.5), Cue("boss_sagat_voice_kick"),
			MoveTo(Keep(), Bottom(-10), 0.3),
			Wait(0.05),
			MoveTo(Keep(), Engage(0), 0.2),
			Anim("idle"),
			Wait(1.0),
		)},
	},
	types.BossVega: {
		{Name: "teleport", Weight: 0.1, Steps: concat(
			vegaWarp, steps(Teleport(MinX(20), Keep()), Wait(0.3)),
			vegaWarp, steps(Teleport(MaxX(20), Keep()), Wait(0.3)),
			vegaWarp, steps(Teleport(RandomX(), Keep()), Wait(0.5)),
		)},
		{Name: "psycho_ball", Weight: 0.3, Steps: concat(
			vegaWarp, steps(Teleport(MinX(10), Keep()), Cue("boss_vega_voice_tama"), Anim("shoot"), Emit(single("A")), Wait(0.4)),
			vegaWarp, steps(Teleport(MaxX(10), Keep()), Anim("shoot"), Emit(single("A")), Wait(0.4)),
			vegaWarp, steps(Teleport(Center(), Keep()), Cue("boss_vega_voice_tama"), Anim("shoot"), Emit(single("A"))),
			steps(Wait(0.5), Anim("idle"), Wait(3.0)),
		)},
		{Name: "psycho_field", Weight: 0.3, Steps: concat(
			steps(
				MoveTo(Center(), Engage(10), 0.3),
				Wait(0.5), Anim("shoot"), Cue("boss_vega_voice_shoot"),
				Wait(0.3),
			),
			repeat(3, steps(
				Emit(EmitDef{Slot: "B", Formation: FormationRing, Count: 24, Radius: 50}),
				Wait(1.0),
			)),
			steps(Anim("idle"), Wait(2.0)),
		)},
		{Name: "psycho_crusher", Weight: 0.3, Steps: concat(
			vegaWarp,
			steps(
				Teleport(PlayerX(), Keep()),
				MoveTo(Keep(), Engage(-20), 0.2),
				Anim("attack"), Cue("boss_vega_voice_crusher"),
				MoveTo(Keep(), Abs(ScreenHeight-15), 0.9),
				Anim("idle"),
				Wait(0.1),
				Teleport(Center(), Above()),
			),
			vegaWarp,
			steps(MoveTo(Keep(), Engage(0), 1.0), Wait(0.5)),
		)},
	},
	types.BossGoki: {
		{Name: "gohadoken", Weight: 0.35, Steps: steps(
			MoveTo(PlayerX(), Keep(), 0.4),
			Anim("shootA"), Wait(0.32), Cue("boss_goki_voice_tama0"), Emit(single("A")),
			Anim("shootA"), Wait(0.32), Emit(single("A")),
			Anim("shootA"), Wait(0.32), Cue("boss_goki_voice_tama0"), Emit(single("A")),
			Wait(0.3), Anim("idle"),
			Wait(1.0),
		)},
		{Name: "zanku_hadoken", Weight: 0.30, Steps: steps(
			MoveTo(PlayerX(), Keep(), 0.4),
			Anim("shootB"), Cue("boss_goki_voice_tama1"),
			Wait(0.4), Emit(single("B")),
			Wait(0.8), Anim("idle"),
			Wait(1.0),
		)},
		{Name: "ashura_long", Weight: 0.25, Steps: steps(
			Wait(0.4), Anim("syngoku"), Cue("boss_goki_voice_ashura"),
			MoveTo(Keep(), Bottom(-20), 1.2),
			Wait(0.2),
			MoveTo(RandomX(), Engage(0), 0.7),
			Wait(0.3), Anim("idle"),
			Wait(1.0),
		)},
		{Name: "ashura_short", Weight: 0.10, Steps: steps(
			Anim("syngoku"), Cue("boss_goki_voice_ashura"),
			MoveTo(RandomX(), RandomIn(60, BossEngageY), 0.7),
			Wait(0.3), Anim("idle"),
			Wait(1.0),
		)},
	},
	types.BossFang: {
		{Name: "beam", Weight: 0.3, Steps: steps(
			Anim("charge"),
			Wait(0.5), Anim("beam"), Cue("boss_fang_voice_beam0"), Emit(fan("A", 105, fangBeamEmitters...)),
			Wait(0.5), Anim("beam"), Cue("boss_fang_voice_beam0"), Emit(fan("A", 90, fangBeamEmitters...)),
			Wait(0.5), Anim("beam"), Cue("boss_fang_voice_beam1"), Emit(fan("A", 75, fangBeamEmitters...)),
			Wait(0.3), Anim("idle"),
			Wait(1.0),
		)},
		{Name: "meka", Weight: 0.4, Steps: steps(
			Cue("boss_fang_voice_meka"),
			Wait(0.1), Emit(EmitDef{Slot: "C", Formation: FormationSwarm, Count: 32, Stagger: 10}),
			Wait(0.5), Anim("wait"),
			Wait(4.0),
		)},
		{Name: "smoke", Weight: 0.3, Steps: concat(
			steps(Cue("boss_fang_voice_smoke"), Wait(1.0), Anim("wait")),
			repeat(5, steps(Wait(0.3), Emit(EmitDef{Slot: "B", Formation: FormationCone, Count: 1, MinAngle: 60, MaxAngle: 120}))),
			steps(Wait(1.0), Anim("idle"), Wait(5.0)),
		)},
	},
}

func stompSteps(start, end Coord) []StepDef {
	return steps(
		MoveTo(start, Engage(-20), 0.4),
		Wait(0.2),
		Cue("boss_bison_voice_faint"),
		MoveTo(end, Engage(0), 0.4),
		MoveTo(start, Engage(30), 0.4),
		MoveTo(end, Engage(60), 0.4),
		Anim("attack"), Cue("boss_bison_voice_faint_punch"),
		Wait(0.2),
		MoveTo(Keep(), Bottom(10), 0.3),
		MoveTo(Keep(), Engage(0), 0.2),
		Wait(0.05), Anim("idle"),
		Wait(1.0),
	)
}

// Patterns 返回 Boss 的攻击模式列表
func Patterns(kind types.BossKind) []PatternDef {
	return PatternTable[kind]
}

// EngageY 返回 Boss 的交战高度
func EngageY(kind types.BossKind) float64 {
	if kind == types.BossFang {
		return FangEngageY
	}
	return BossEngageY
}

// EntrySpeed 返回 Boss 的入场速度
func EntrySpeed(kind types.BossKind) float64 {
	if kind == types.BossFang {
		return FangEntrySpeed
	}
	return BossEntrySpeed
}

// KOCue Boss 被击倒时的语音
func KOCue(kind types.BossKind) string {
	return "boss_" + kind.String() + "_voice_ko"
}
