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
	lib.Commands["events-listen"] = eventsListen
	lib.Args["events-listen"] = eventsListenArgs{}
}

type eventsListenArgs struct {
	RuleName   string `arg:"positional,required" help:"existing rule to clone the listener from"`
	BusName    string `arg:"positional" default:"default"`
	Source     string `arg:"-s,--source" help:"match events with this source"`
	DetailType string `arg:"-d,--detail-type" help:"match events with this detail-type"`
	Timeout    string `arg:"-t,--timeout" default:"20s"`
}

func (eventsListenArgs) Description() string {
	return "\nattach a temporary listener cloned from an existing rule and wait for a matching event, then remove the listener\n"
}

func eventsListen() {
	var args eventsListenArgs
	arg.MustParse(&args)
	matched := eventsListenWait(args)
	if !matched {
		os.Exit(1)
	}
}

// listener removal is deferred here so it runs before any exit
func eventsListenWait(args eventsListenArgs) bool {
	timeout, err := time.ParseDuration(args.Timeout)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	expect := make(map[string]string)
	if args.Source != "" {
		expect["source"] = args.Source
	}
	if args.DetailType != "" {
		expect["detail-type"] = args.DetailType
	}
	pred := lib.Scenario{Expect: expect}.Predicate()
	ctx := context.Background()
	listener, err := lib.EventsAddListener(ctx, args.BusName, args.RuleName)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	defer func() {
		err := lib.EventsRemoveListeners(context.Background(), listener)
		if err != nil {
			lib.Logger.Println("error:", err)
		}
	}()
	start := time.Now()
	matched, err := lib.WaitUntilEventMatched(ctx, listener, pred, timeout)
	if err != nil {
		lib.Logger.Println("error:", err)
		return false
	}
	if matched {
		fmt.Println("matched after", time.Since(start).Round(time.Millisecond))
	} else {
		fmt.Println("no match after", time.Since(start).Round(time.Millisecond))
	}
	return matched
}
