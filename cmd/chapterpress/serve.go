package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/opd-ai/chapterpress/internal/assembler"
	"github.com/opd-ai/chapterpress/internal/config"
	"github.com/opd-ai/chapterpress/internal/logging"
	"github.com/opd-ai/chapterpress/internal/metrics"
	"github.com/opd-ai/chapterpress/internal/web"
)

func runServe(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.Log.File); err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logging.Close()

	asm := assembler.New(
		assembler.WithPageSize(cfg.Document.PageSize),
		assembler.WithLineHeight(cfg.Document.LineHeight),
	)
	srv, err := web.New(cfg.Server, asm, metrics.New())
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); err != nil {
		logging.Error.Printf("server stopped: %v", err)
		return err
	}
	logging.Info.Printf("Server stopped")
	return nil
}
