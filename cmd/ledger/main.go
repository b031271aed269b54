package main

import (
	"context"
	"errors"
	"os"

	"github.com/fsdevblog/remit-ledger/internal/app"
	"github.com/fsdevblog/remit-ledger/internal/config"
	"github.com/fsdevblog/remit-ledger/internal/logger"
)

func main() {
	conf := config.MustLoadConfig(os.Args[1:])
	l := logger.New(os.Stdout)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		l.WithError(err).Fatal("app stopped")
	}
}
