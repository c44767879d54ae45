// Package main is the kyoshi CLI entry point. One binary hosts every role:
// the public gateway and the three agents each run as their own process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/kyoshi/internal/agent/studyplan"
	"github.com/hyperjump/kyoshi/internal/agent/voice"
	"github.com/hyperjump/kyoshi/internal/agent/worksheet"
	"github.com/hyperjump/kyoshi/internal/config"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/gateway"
	"github.com/hyperjump/kyoshi/internal/llm"
	"github.com/hyperjump/kyoshi/internal/metrics"
	"github.com/hyperjump/kyoshi/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kyoshi/config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "gateway":
		runRole("gateway")
	case "worksheet":
		runRole("worksheet")
	case "studyplan":
		runRole("studyplan")
	case "voice":
		runRole("voice")
	case "report":
		runReport()
	case "version", "--version", "-v":
		fmt.Printf("kyoshi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory wins, so running from the project dir picks up the
// project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// service is one of the four runnable HTTP roles.
type service interface {
	Start(addr string) error
	Stop(ctx context.Context) error
}

func runRole(role string) {
	fs := roleFlags(role)
	configPath := fs.configPath
	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *fs.port != 0 {
		cfg.Server.Port = *fs.port
	}
	debugMode := cfg.Debug || *fs.debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("role", role),
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
	)

	store, err := filestore.New(cfg.Store.Root, cfg.Store.URLPrefix)
	if err != nil {
		logger.Fatal("Failed to open file store", zap.Error(err))
	}

	var svc service
	switch role {
	case "gateway":
		svc = gateway.NewServer(store, cfg, logger)
	default:
		if cfg.Oracle.APIKey == "" {
			logger.Warn("no oracle API key configured; set ORACLE_API_KEY")
		}
		client := llm.NewOpenAI(cfg.Oracle)
		metricsLog := metrics.NewLogger(cfg.Metrics.LogPath, logger)
		switch role {
		case "worksheet":
			svc = worksheet.NewServer(store, client, cfg, logger, metricsLog)
		case "studyplan":
			svc = studyplan.NewServer(store, client, cfg, logger, metricsLog)
		case "voice":
			svc = voice.NewServer(store, client, cfg, logger, metricsLog)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := svc.Start(addr); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = svc.Stop(ctx)
}

func printUsage() {
	fmt.Println(`kyoshi - teaching assistant platform

Usage:
  kyoshi gateway [flags]     Start the public gateway
  kyoshi worksheet [flags]   Start the worksheet agent
  kyoshi studyplan [flags]   Start the studyplan agent
  kyoshi voice [flags]       Start the voice agent
  kyoshi report [flags]      Summarize the metrics log
  kyoshi version             Show version
  kyoshi help                Show this help

Role Flags:
  --config string    Config file path (default: /usr/local/etc/kyoshi/config.yaml)
  --port int         Override the configured listen port
  --debug            Enable debug logging

Report Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Examples:
  kyoshi gateway
  kyoshi worksheet --port 8081
  kyoshi studyplan --port 8082 --debug
  kyoshi voice --port 8083
  kyoshi report --output json`)
}
