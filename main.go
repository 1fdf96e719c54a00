package main

import (
	"fmt"
	"os"
	"sort"

	_ "github.com/videoplugins/testkit/cmd/cf"
	_ "github.com/videoplugins/testkit/cmd/events"
	_ "github.com/videoplugins/testkit/cmd/scenario"
	_ "github.com/videoplugins/testkit/cmd/sfn"
	_ "github.com/videoplugins/testkit/cmd/sqs"
	_ "github.com/videoplugins/testkit/cmd/stocks"
	"github.com/videoplugins/testkit/lib"
)

func usage() {
	var fns []string
	for k := range lib.Commands {
		fns = append(fns, k)
	}
	sort.Strings(fns)
	for _, fn := range fns {
		fmt.Println(fn)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fn, ok := lib.Commands[cmd]
	if !ok {
		usage()
		os.Exit(1)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' {
			for _, k := range a[1:] {
				args = append(args, fmt.Sprintf("-%s", string(k)))
			}
		} else {
			args = append(args, a)
		}
	}
	os.Args = args
	fn()
}
