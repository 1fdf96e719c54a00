package lib

import (
	"encoding/json"
	"os"
	"time"
)

var Commands = make(map[string]func())
var Args = make(map[string]interface{})

var doDebug = os.Getenv("DEBUG") != ""

type Debug struct {
	start time.Time
	name  string
}

func (d *Debug) Log() {
	Logger.Println("debug:", d.name, time.Since(d.start))
}

const (
	ErrPrefixDidntFindExactlyOne = "didnt find exactly one"
)

func Pformat(x interface{}) string {
	data, err := json.MarshalIndent(x, "", "    ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

func Contains(parts []string, part string) bool {
	for _, p := range parts {
		if p == part {
			return true
		}
	}
	return false
}
