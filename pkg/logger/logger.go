// Package logger 基于zerolog的全局日志初始化
//
// 用法:
//
//	logger.Init(logger.Options{Level: "info", Format: "json", Output: "stdout"})
//	log.Info().Str("addr", addr).Msg("服务启动")
//
// 请求级日志通过log.Ctx(ctx)获取,HTTP中间件会把带request_id的logger放入ctx;
// ctx中没有logger时回退到全局logger
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// Init 初始化全局logger
// 返回的io.Closer用于关闭日志文件(输出到stdout/stderr时Close为空操作)
func Init(opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out, closer, err := openOutput(opts.Output)
	if err != nil {
		return nil, err
	}

	l := New(out, opts.Format, level, opts.EnableCaller)

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger

	return closer, nil
}

// New 创建logger(不修改全局状态)
// format为console时输出人类可读格式,否则输出JSON
func New(w io.Writer, format string, level zerolog.Level, withCaller bool) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if withCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return f, f, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
