package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Mount    bool
	Parse    bool
	Validate bool
	PathRef  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Mount = boolEnv("CONFLANG_DEBUG_MOUNT")
	d.Parse = boolEnv("CONFLANG_DEBUG_PARSE")
	d.Validate = boolEnv("CONFLANG_DEBUG_VALIDATE")
	d.PathRef = boolEnv("CONFLANG_DEBUG_PATHREF")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Mount() bool {
	return d.Mount
}
func Parse() bool {
	return d.Parse
}
func Validate() bool {
	return d.Validate
}
func PathRef() bool {
	return d.PathRef
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
