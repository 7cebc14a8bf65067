package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	graphchatcmder "github.com/papercomputeco/graphchat/cmd/graphchat"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := graphchatcmder.NewGraphchatCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
		stop()
		os.Exit(1)
	}
}
