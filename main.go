package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "server-launcher/cmd"
	"server-launcher/cmd/root"
	"server-launcher/internal/config"
	"server-launcher/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// 控制台模式下日志与stderr重复，只在写日志文件时记录
		if path := config.Config.Log.Path; path != "" && path != "console" {
			logger.Error(err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
