package main

import (
	"github.com/odoogo/odoogo/internal/cli"
	"github.com/odoogo/odoogo/internal/common/logtrace"
)

func main() {
	logtrace.InitConsoleLogger()
	cli.Execute()
}
