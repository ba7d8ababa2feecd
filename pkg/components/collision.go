package components

// CollisionComponent 定义实体的命中矩形
// 矩形相对实体位置偏移，偏移和尺寸都会乘以 Scale
type CollisionComponent struct {
	OffsetX float64 // 命中框左上角相对实体位置的X偏移量（像素）
	OffsetY float64 // 命中框左上角相对实体位置的Y偏移量（像素）
	Width   float64 // 命中框宽度（像素）
	Height  float64 // 命中框高度（像素）
	Scale   float64 // 缩放，0 视为 1
}

// Valid 命中框宽高都为正数
func (c *CollisionComponent) Valid() bool {
	return c != nil && c.Width > 0 && c.Height > 0
}

// WorldRect 计算世界坐标系中的命中矩形
//
// 参数:
//   - x, y: 实体位置
//
// 返回:
//   - left, top, right, bottom: 矩形边界
func (c *CollisionComponent) WorldRect(x, y float64) (left, top, right, bottom float64) {
	s := c.Scale
	if s == 0 {
		s = 1
	}
	left = x + c.OffsetX*s
	top = y + c.OffsetY*s
	return left, top, left + c.Width*s, top + c.Height*s
}
