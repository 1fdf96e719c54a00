package testkit

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/videoplugins/testkit/lib"
)

func init() {
	lib.Commands["sfn-ls"] = sfnLs
	lib.Args["sfn-ls"] = sfnLsArgs{}
}

type sfnLsArgs struct {
}

func (sfnLsArgs) Description() string {
	return "\nlist state machines\n"
}

func sfnLs() {
	var args sfnLsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	machines, err := lib.SfnListStateMachines(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, machine := range machines {
		fmt.Println(
			*machine.Name,
			*machine.StateMachineArn,
			fmt.Sprintf("created=%s", humanize.Time(*machine.CreationDate)),
		)
	}
}
