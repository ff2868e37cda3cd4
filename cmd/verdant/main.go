// Package main is the entry point for the Verdant vegetation editor.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/verdant/internal/config"
	"github.com/Faultbox/verdant/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Named("main")
	log.Info("=== Verdant vegetation editor ===")
	log.Debugf("Config: %+v", cfg)

	ed, err := NewEditor(cfg)
	if err != nil {
		log.Errorw("failed to create editor", "error", err)
		os.Exit(1)
	}
	defer ed.Close()

	if err := ed.Run(); err != nil {
		log.Errorw("editor error", "error", err)
		os.Exit(1)
	}
	log.Info("editor closed normally")
}
