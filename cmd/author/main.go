package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mind-engage/mocktest-admin/internal/authoring"
	"github.com/mind-engage/mocktest-admin/internal/client"
	"github.com/mind-engage/mocktest-admin/internal/config"
	"github.com/mind-engage/mocktest-admin/internal/console"
	"github.com/mind-engage/mocktest-admin/internal/draft"
	"github.com/mind-engage/mocktest-admin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var store storage.BlobStore = storage.NewMemStore()
	if cfg.DraftDir != "" {
		fs, err := storage.NewFSStore(cfg.DraftDir)
		if err != nil {
			log.Fatalf("draft store: %v", err)
		}
		store = fs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := draft.NewSession(store, cfg.DraftKey)
	ctrl := authoring.NewController(sess, client.New(cfg.ServerURL))
	if err := console.New(ctrl, os.Stdout).Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Fatalf("author: %v", err)
	}
}
