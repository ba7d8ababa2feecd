//go:build !mobile

// stub.go - 普通构建时的占位文件
//
// 移动端入口在 mobile.go 和 embed.go 中，只在 -tags mobile 时编译。
package mobile

// Dummy 让包在非移动端构建时也能被引用
func Dummy() {}
