package components

// PositionComponent 实体在世界坐标系中的位置（像素）
type PositionComponent struct {
	X float64
	Y float64
}

// VelocityComponent 每帧位移（像素/帧）
// 由 MovementSystem 在未冻结的帧积分到 PositionComponent
type VelocityComponent struct {
	VX float64
	VY float64
}
