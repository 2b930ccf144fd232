// @title        Library API
// @version      1.0
// @description  图书目录管理:图书的增删改查,ISBN-13校验
// @BasePath     /
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("服务异常退出")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logCloser, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logCloser.Close()

	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Msg("✓ 配置加载成功")

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			return fmt.Errorf("初始化Tracer失败: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("关闭Tracer失败")
			}
		}()
	}

	metrics.InitMetrics()

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
