package config

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
)

// resultVar 条件表达式结果保存的脚本变量
const resultVar = "__result"

// ConditionVars 条件表达式可以引用的变量
type ConditionVars struct {
	Elapsed float64 // Boss 交战后经过的秒数
	HP      int
	MaxHP   int
	Stage   int
	Loops   int // 已完成的攻击模式轮数
}

func (v ConditionVars) toMap() map[string]interface{} {
	return map[string]interface{}{
		"elapsed": v.Elapsed,
		"hp":      v.HP,
		"maxHp":   v.MaxHP,
		"stage":   v.Stage,
		"loops":   v.Loops,
	}
}

// Condition 目录中以 tengo 表达式配置的条件
// 例如 transformWhen: "elapsed >= 20 && stage == 3"
type Condition struct {
	source   string
	compiled *tengo.Compiled
}

// CompileCondition 编译条件表达式
//
// 参数：
//   - expr: tengo 表达式，空字符串表示无条件（返回 nil, nil）
//
// 返回：
//   - *Condition: 编译后的条件
//   - error: 表达式语法错误
func CompileCondition(expr string) (*Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	script := tengo.NewScript([]byte(resultVar + " := (" + expr + ")"))
	for name, zero := range (ConditionVars{}).toMap() {
		if err := script.Add(name, zero); err != nil {
			return nil, fmt.Errorf("failed to declare condition variable %s: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile condition %q: %w", expr, err)
	}
	return &Condition{source: expr, compiled: compiled}, nil
}

// Source 返回原始表达式
func (c *Condition) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// Eval 以给定变量求值
// nil 条件恒为 false
func (c *Condition) Eval(vars ConditionVars) (bool, error) {
	if c == nil {
		return false, nil
	}
	for name, value := range vars.toMap() {
		if err := c.compiled.Set(name, value); err != nil {
			return false, fmt.Errorf("failed to set %s for condition %q: %w", name, c.source, err)
		}
	}
	if err := c.compiled.Run(); err != nil {
		return false, fmt.Errorf("failed to evaluate condition %q: %w", c.source, err)
	}
	return c.compiled.Get(resultVar).Bool(), nil
}
