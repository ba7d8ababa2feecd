package components

// AnimationComponent 渲染协作方读取的动画状态
// 核心只设置符号化的动画名，不关心具体帧
type AnimationComponent struct {
	Current string  // 当前动画名
	Paused  bool    // 冻结时暂停播放
	Alpha   float64 // 透明度（淡入淡出）
}
