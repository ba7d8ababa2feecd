// validate_catalog 校验属性目录文件并打印概要
//
//	go run ./cmd/validate_catalog data/catalog.yaml
package main

import (
	"fmt"
	"os"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/types"
)

func main() {
	path := "data/catalog.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	catalog, err := config.LoadCatalog(path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 目录格式正确: %s\n", path)
	fmt.Printf("✅ 关卡数量: %d\n", catalog.StageCount())

	missing := 0
	for i := 0; i < catalog.StageCount(); i++ {
		kind, err := types.BossKindForStage(i)
		if err != nil {
			fmt.Printf("❌ 关卡 %d 没有对应的 Boss\n", i)
			missing++
			continue
		}
		if _, ok := catalog.BossTemplate(kind); !ok {
			fmt.Printf("❌ 关卡 %d 缺少 Boss 模板 %s\n", i, kind)
			missing++
			continue
		}
		if _, ok := config.PatternTable[kind]; !ok {
			fmt.Printf("❌ Boss %s 没有攻击模式表\n", kind)
			missing++
		}
	}
	if missing > 0 {
		os.Exit(1)
	}
	fmt.Printf("✅ 所有关卡都有 Boss 模板和攻击模式\n")
}
