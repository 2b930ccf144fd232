package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// provideBookService 应用服务外包一层tracing/metrics
func provideBookService(repo book.Repository) appbook.Service {
	return appbook.NewInstrumentedService(appbook.NewService(repo))
}

// App HTTP应用
type App struct {
	cfg    *config.Config
	engine *gin.Engine
}

func newApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{cfg: cfg, engine: engine}
}

// Run 启动HTTP服务,ctx取消后在ShutdownTimeout内优雅关闭
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("🚀 服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("启动服务失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("收到退出信号,开始优雅关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	log.Info().Msg("✓ 服务已关闭")
	return nil
}
