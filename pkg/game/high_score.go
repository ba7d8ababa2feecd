package game

import (
	"fmt"

	"github.com/decker502/shmup/pkg/logger"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ScoreRecord 一次关卡结算的成绩
type ScoreRecord struct {
	Score    int `yaml:"score"`
	MaxCombo int `yaml:"maxCombo"`
	Stage    int `yaml:"stage"`
}

// 存储路径常量
const (
	highScoreObject   = "highscore"
	highScoreProperty = "best"
)

// HighScoreManager 最高分管理器
type HighScoreManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	best         ScoreRecord
}

// NewHighScoreManager 创建最高分管理器并尝试加载已保存的记录
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *HighScoreManager: 管理器实例
func NewHighScoreManager(gdataManager *gdata.Manager) *HighScoreManager {
	m := &HighScoreManager{gdataManager: gdataManager}
	if err := m.Load(); err != nil {
		logger.For("HighScoreManager").WithError(err).Warn("failed to load high score, starting from zero")
	}
	return m
}

// Load 从 gdata 加载最高分
//
// 返回：
//   - error: 数据存在但读取或反序列化失败
func (m *HighScoreManager) Load() error {
	m.best = ScoreRecord{}
	if m.gdataManager == nil {
		return nil
	}
	if !m.gdataManager.ObjectPropExists(highScoreObject, highScoreProperty) {
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(highScoreObject, highScoreProperty)
	if err != nil {
		return fmt.Errorf("failed to load high score: %w", err)
	}

	var record ScoreRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to unmarshal high score: %w", err)
	}
	m.best = record
	return nil
}

// HighScore 当前最高分
func (m *HighScoreManager) HighScore() int {
	return m.best.Score
}

// Best 当前最高分记录
func (m *HighScoreManager) Best() ScoreRecord {
	return m.best
}

// Submit 提交关卡成绩，只有超过最高分时才保存
//
// 参数：
//   - record: 本次成绩
//
// 返回：
//   - bool: 是否刷新了最高分
//   - error: 持久化失败（内存中的最高分仍会更新）
func (m *HighScoreManager) Submit(record ScoreRecord) (bool, error) {
	if record.Score <= m.best.Score {
		return false, nil
	}
	m.best = record

	if m.gdataManager == nil {
		return true, nil
	}
	data, err := yaml.Marshal(&record)
	if err != nil {
		return true, fmt.Errorf("failed to marshal high score: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(highScoreObject, highScoreProperty, data); err != nil {
		return true, fmt.Errorf("failed to save high score: %w", err)
	}
	logger.For("HighScoreManager").WithField("score", record.Score).Info("high score saved")
	return true, nil
}
