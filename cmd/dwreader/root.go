package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/milad/dwreader/internal/config"
	"github.com/milad/dwreader/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dwreader",
	Short: "Read-only query service for warehouse measurements",
	Long: `dwreader serves paged measurement and agreement lookups from the data
warehouse over gRPC and an HTTP/JSON gateway.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "config.yaml"
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setup loads the config and builds the logger every command needs.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
