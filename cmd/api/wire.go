//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/google/wire"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// InitializeApp 组装HTTP应用
// 依赖链:Config → Repository → Service → Handler → gin.Engine → App
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		storage.NewRepository,
		provideBookService,
		handler.NewBookHandler,
		router.New,
		newApp,
	)
	return nil, nil, nil
}
