//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 在 gdata 打开之前创建 Android 的存档目录
//
// gdata 把数据写到 /data/data/{package}/saves，但不会预先创建该目录。
//
// 返回：
//   - error: 包名检测失败，或目录无法创建、不可写
func EnsureStorageDir() error {
	dir := StoragePath()
	if dir == "" {
		return fmt.Errorf("cannot detect android package name")
	}
	saves := filepath.Join(dir, "saves")
	if err := os.MkdirAll(saves, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", saves, err)
	}

	probe := filepath.Join(saves, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("%s not writable: %w", saves, err)
	}
	_ = os.Remove(probe)
	return nil
}

// StoragePath 应用私有目录 /data/data/{package}，检测失败返回空串
func StoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	// cmdline 以 NUL 分隔，第一个字段是包名
	pkg := strings.TrimSpace(strings.SplitN(string(data), "\x00", 2)[0])
	if pkg == "" {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}
