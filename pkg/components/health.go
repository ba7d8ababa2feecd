package components

// HealthComponent 存储实体的生命值信息
// 不变量：0 <= CurrentHealth <= MaxHealth
type HealthComponent struct {
	CurrentHealth int  // 当前生命值
	MaxHealth     int  // 最大生命值
	Infinite      bool // 不可破坏（受击只闪烁，不扣血）
}
