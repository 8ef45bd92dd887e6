// Package main is the entry point for rtdccfg, a tool to check, show and
// convert RT-DC dataset configuration files.
package main

import (
	"os"

	"github.com/dshills/rtdcconfig/cmd/rtdccfg/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
