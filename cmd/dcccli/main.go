package main

import (
	"github.com/robotalks/dcc.go/pkg/cli/sh"
	env "github.com/robotalks/dcc.go/pkg/l1/env/connector"

	_ "github.com/robotalks/dcc.go/pkg/cli/cmds/dcc"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
