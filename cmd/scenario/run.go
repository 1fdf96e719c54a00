package testkit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/videoplugins/testkit/lib"
)

func init() {
	lib.Commands["scenario-run"] = scenarioRun
	lib.Args["scenario-run"] = scenarioRunArgs{}
}

type scenarioRunArgs struct {
	File string `arg:"positional,required" help:"yaml file of trigger/expect scenarios"`
}

func (scenarioRunArgs) Description() string {
	return "\nrun every scenario in a file against the stack named by PLUGIN_TESTER_STACK_NAME\n"
}

func scenarioRun() {
	var args scenarioRunArgs
	arg.MustParse(&args)
	file, err := lib.ScenarioLoad(args.File)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	ctx := context.Background()
	missed := 0
	for _, scenario := range file.Scenarios {
		// one harness per scenario, each owns exactly one listener
		h, err := lib.NewHarness()
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		start := time.Now()
		matched, err := lib.ScenarioRun(ctx, h, scenario)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		elapsed := time.Since(start).Round(time.Millisecond)
		if matched {
			fmt.Println(scenario.Name, "matched after", elapsed)
		} else {
			fmt.Println(scenario.Name, "no match after", elapsed)
			missed++
		}
	}
	if missed != 0 {
		os.Exit(1)
	}
}
