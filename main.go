package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ByLCY/shoehorn/app"
	"github.com/ByLCY/shoehorn/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run 解析子命令：render 生成一次 PDF；watch 监听文件变化并持续输出。
func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return nil
	}
	command, rest := args[0], args[1:]
	if command != "render" && command != "watch" {
		printUsage()
		return fmt.Errorf("未知子命令 %s", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	opts := app.Options{
		FontDir:  cfg.FontDir,
		Interval: cfg.FrameInterval,
		Logger:   logger,
	}
	flagSet := pflag.NewFlagSet("shoehorn "+command, pflag.ContinueOnError)
	flagSet.StringVar(&opts.Input, "in", "examples/poster.shoehorn", "场景文件路径")
	flagSet.StringVar(&opts.Output, "out", "output/poster.pdf", "PDF 输出路径")
	flagSet.StringVar(&opts.Debug, "debug", "", "适配结果调试 JSON 输出路径")
	flagSet.StringVar(&opts.Data, "data", "", "绑定到场景的 JSON 数据")
	flagSet.StringVar(&opts.DataFile, "data-file", "", "绑定数据 JSON 文件（watch 模式下会被监听）")
	if err := flagSet.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return fmt.Errorf("多余的参数: %s", extra[0])
	}

	if command == "render" {
		if err := app.Render(opts); err != nil {
			return fmt.Errorf("生成 PDF 失败: %w", err)
		}
		fmt.Printf("已生成 PDF：%s\n", opts.Output)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Watch(ctx, opts)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `shoehorn 按容器尺寸自动选择字号，并输出 PDF。

用法:
  shoehorn render [--in FILE] [--out FILE] [--debug FILE] [--data JSON | --data-file FILE]
  shoehorn watch  [同上]

环境变量:
  SHOEHORN_FRAME_INTERVAL  watch 模式帧间隔（默认 16ms）
  SHOEHORN_LOG_LEVEL       debug / info / warn / error（默认 info）
  SHOEHORN_FONT_DIR        相对字体路径的解析目录（默认为场景文件所在目录）
`)
}
