package components

// LifetimeComponent 管理短命实体（爆炸、命中特效）的存在时间
type LifetimeComponent struct {
	MaxFrames int  // 最大存在帧数
	Frames    int  // 已存在帧数
	IsExpired bool // 是否已过期
}
