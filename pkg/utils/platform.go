//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设为 1 时桌面端按移动端处理输入（本地调试触摸操作）
const MobileEmulateEnv = "SHMUP_MOBILE_EMULATE"

// IsMobile 是否按移动端处理，桌面端编译时取决于 MobileEmulateEnv
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
