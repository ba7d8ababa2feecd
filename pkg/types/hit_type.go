package types

// HitType 伤害类型
// 只影响反馈（音效/特效），不改变生命周期状态机
type HitType int

const (
	// HitNormal 普通命中
	HitNormal HitType = iota
	// HitInfinity 防御/抵消命中（子弹撞到无敌目标、子弹互相抵消、护盾）
	HitInfinity
)

func (h HitType) String() string {
	if h == HitInfinity {
		return "infinity"
	}
	return "normal"
}
