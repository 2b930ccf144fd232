// 交互式图书管理菜单
//
// 与HTTP服务使用同一份配置和仓储组装逻辑,日志输出到stderr,避免与菜单混在一起
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/internal/interface/console"
	"github.com/xiebiao/library/pkg/logger"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("菜单异常退出")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	output := cfg.Log.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	logCloser, err := logger.Init(logger.Options{
		Level:        "warn",
		Format:       cfg.Log.Format,
		Output:       output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logCloser.Close()

	repo, cleanup, err := storage.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("初始化仓储失败: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu := console.NewMenu(appbook.NewService(repo), os.Stdin, os.Stdout)
	return menu.Run(ctx)
}
