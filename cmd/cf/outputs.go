package testkit

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/videoplugins/testkit/lib"
)

func init() {
	lib.Commands["cf-outputs"] = cfOutputs
	lib.Args["cf-outputs"] = cfOutputsArgs{}
}

type cfOutputsArgs struct {
	StackName   string   `arg:"positional,required"`
	OutputNames []string `arg:"positional" help:"output keys to resolve, all outputs when omitted"`
}

func (cfOutputsArgs) Description() string {
	return "\nresolve stack outputs by key\n"
}

func cfOutputs() {
	var args cfOutputsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	outputs, err := lib.CfStackOutputs(ctx, args.StackName, args.OutputNames...)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	var keys []string
	for key := range outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + "=" + outputs[key])
	}
}
