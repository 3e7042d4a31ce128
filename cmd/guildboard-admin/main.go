package main

import (
	"context"
	"os"

	"github.com/guildboard/guildboard/internal/bootstrap"
)

func main() {
	logger := bootstrap.InitLogger()
	a := &app{logger: logger, out: os.Stdout}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}
