package components

// FlashEffectComponent 闪烁效果组件
// 实体受击时短暂闪白，结束后由 FlashEffectSystem 移除
type FlashEffectComponent struct {
	// Frames 闪烁持续帧数
	Frames int

	// Elapsed 已经过的帧数
	Elapsed int

	// Intensity 闪烁强度（0.0 - 1.0）
	Intensity float64
}
