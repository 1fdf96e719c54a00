package testkit

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/videoplugins/testkit/lib"
)

func init() {
	lib.Commands["sfn-start"] = sfnStart
	lib.Args["sfn-start"] = sfnStartArgs{}
}

type sfnStartArgs struct {
	StateMachineArn string `arg:"positional,required"`
	Input           string `arg:"positional" default:"{}" help:"json input for the execution"`
}

func (sfnStartArgs) Description() string {
	return "\nstart a state machine execution\n"
}

func sfnStart() {
	var args sfnStartArgs
	arg.MustParse(&args)
	ctx := context.Background()
	executionArn, err := lib.SfnStartExecution(ctx, args.StateMachineArn, args.Input)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(executionArn)
}
