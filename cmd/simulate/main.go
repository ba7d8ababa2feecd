// simulate 无界面地运行关卡，输出结算结果
//
// 用于调平数值和检查确定性：相同的 --seed 必须得到相同的结果。
//
//	go run ./cmd/simulate --stage 2 --frames 9000 --runs 2
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/stage"
)

var (
	stageFlag   = flag.Int("stage", 0, "关卡索引（0 开始）")
	frames      = flag.Int("frames", 9000, "最多运行的帧数")
	seed        = flag.Int64("seed", 1, "随机种子")
	runs        = flag.Int("runs", 1, "重复次数，大于 1 时比较每次的结果")
	catalogPath = flag.String("catalog", "data/catalog.yaml", "属性目录文件")
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
)

// sweepInput 左右往返移动，每隔固定帧数请求一次 CA
type sweepInput struct {
	frame int
}

func (in *sweepInput) TargetX() (float64, bool) {
	in.frame++
	return config.CenterX + 100*math.Sin(float64(in.frame)/40), true
}

func (in *sweepInput) SpecialPressed() bool {
	return in.frame > 0 && in.frame%300 == 0
}

func run(catalog *config.Catalog) (stage.Result, int, error) {
	st, err := stage.New(*stageFlag, 0, *seed, game.Collaborators{
		Input:   &sweepInput{},
		Catalog: catalog,
	})
	if err != nil {
		return stage.Result{}, 0, err
	}
	defer st.Close()

	n := 0
	for ; n < *frames && !st.Finished(); n++ {
		if err := st.Update(); err != nil {
			return stage.Result{}, n, err
		}
	}
	return st.Result(), n, nil
}

func main() {
	flag.Parse()
	logger.Init(*verbose)

	catalog, err := config.LoadCatalog(*catalogPath)
	if err != nil {
		fmt.Printf("❌ 目录加载失败: %v\n", err)
		os.Exit(1)
	}

	var first stage.Result
	for i := 0; i < *runs; i++ {
		res, n, err := run(catalog)
		if err != nil {
			fmt.Printf("❌ 第 %d 次运行失败: %v\n", i+1, err)
			os.Exit(1)
		}
		fmt.Printf("run %d: stage=%d frames=%d outcome=%s score=%d maxCombo=%d\n",
			i+1, res.Stage, n, res.Outcome, res.Score, res.MaxCombo)
		if i == 0 {
			first = res
			continue
		}
		if res.Score != first.Score || res.Outcome != first.Outcome || res.MaxCombo != first.MaxCombo {
			fmt.Printf("❌ 第 %d 次运行结果与第 1 次不同\n", i+1)
			os.Exit(1)
		}
	}
	if *runs > 1 {
		fmt.Printf("✅ %d 次运行结果一致\n", *runs)
	}
}
