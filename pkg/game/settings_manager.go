package game

import (
	"fmt"

	"github.com/decker502/shmup/pkg/logger"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 全局设置
type GameSettings struct {
	MusicVolume  float64 `yaml:"musicVolume"` // 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"` // 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"`
	SoundEnabled bool    `yaml:"soundEnabled"`
	Fullscreen   bool    `yaml:"fullscreen"`
	ShowHitRects bool    `yaml:"showHitRects"` // 调试渲染时绘制命中框
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,
	}
}

// CueVolume 根据音效名返回实际音量，BGM 走音乐音量
// 对应开关关闭时返回 0
func (s *GameSettings) CueVolume(cue string) float64 {
	if IsMusicCue(cue) {
		if !s.MusicEnabled {
			return 0
		}
		return s.MusicVolume
	}
	if !s.SoundEnabled {
		return 0
	}
	return s.SoundVolume
}

// IsMusicCue 以 _bgm 结尾的音效名为背景音乐
func IsMusicCue(cue string) bool {
	return len(cue) > 4 && cue[len(cue)-4:] == "_bgm"
}

// SettingsManager 设置管理器
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *GameSettings
}

const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建设置管理器并加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		logger.For("SettingsManager").WithError(err).Warn("failed to load settings, using defaults")
	}
	return sm
}

// Load 从 gdata 加载设置，不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	var loaded GameSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	sm.settings = &loaded
	return nil
}

// Save 保存设置到 gdata，降级模式下什么也不做
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetSoundVolume 设置音效音量（仅内存，需调用 Save 持久化）
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetMusicVolume 设置音乐音量（仅内存，需调用 Save 持久化）
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// ToggleFullscreen 切换全屏并返回新状态
func (sm *SettingsManager) ToggleFullscreen() bool {
	sm.settings.Fullscreen = !sm.settings.Fullscreen
	return sm.settings.Fullscreen
}

// ToggleHitRects 切换命中框显示并返回新状态
func (sm *SettingsManager) ToggleHitRects() bool {
	sm.settings.ShowHitRects = !sm.settings.ShowHitRects
	return sm.settings.ShowHitRects
}

// ToggleSound 同时切换音效和音乐
func (sm *SettingsManager) ToggleSound() bool {
	on := !(sm.settings.SoundEnabled || sm.settings.MusicEnabled)
	sm.settings.SoundEnabled = on
	sm.settings.MusicEnabled = on
	return on
}

// clampVolume 将音量限制在 0.0 ~ 1.0
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
