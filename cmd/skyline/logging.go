package main

import (
	"github.com/urfave/cli"

	"skyline/log"
)

var logger = log.New("skyline")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
