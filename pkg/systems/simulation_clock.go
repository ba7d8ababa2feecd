package systems

import "sort"

// 冻结持有者名称
const (
	FreezeSpecial   = "special"
	FreezeCapture   = "capture"
	FreezeHandoff   = "handoff"
	FreezeBossDeath = "boss_death"
)

// SimulationClock 逻辑帧时钟
//
// 冻结由命名持有者维持：任一持有者存在即为冻结状态。
// 多个过场（CA、瞬狱杀、Boss 交接、Boss 击破）可以重叠，各自只释放自己的冻结。
type SimulationClock struct {
	frame        int
	activeFrames int
	holders      map[string]struct{}
}

// NewSimulationClock 创建时钟
func NewSimulationClock() *SimulationClock {
	return &SimulationClock{holders: make(map[string]struct{})}
}

// Tick 前进一帧
func (c *SimulationClock) Tick() {
	c.frame++
	if !c.IsFrozen() {
		c.activeFrames++
	}
}

// Frame 总帧数
func (c *SimulationClock) Frame() int {
	return c.frame
}

// ActiveFrames 未冻结的帧数
func (c *SimulationClock) ActiveFrames() int {
	return c.activeFrames
}

// Freeze 添加冻结持有者，重复添加无副作用
func (c *SimulationClock) Freeze(holder string) {
	c.holders[holder] = struct{}{}
}

// Release 移除冻结持有者
func (c *SimulationClock) Release(holder string) {
	delete(c.holders, holder)
}

// ReleaseAll 移除全部持有者（关卡销毁时使用）
func (c *SimulationClock) ReleaseAll() {
	c.holders = make(map[string]struct{})
}

// IsFrozen 是否处于冻结状态
func (c *SimulationClock) IsFrozen() bool {
	return len(c.holders) > 0
}

// Holders 当前的冻结持有者（按名称排序）
func (c *SimulationClock) Holders() []string {
	names := make([]string, 0, len(c.holders))
	for name := range c.holders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
