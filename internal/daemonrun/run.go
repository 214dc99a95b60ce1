package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"curator/internal/config"
	"curator/internal/daemon"
	"curator/internal/enrich"
	"curator/internal/ipc"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/services/llm"
	"curator/internal/services/transcriber"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
}

// Run starts the curator daemon runtime loop and blocks until the process
// receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := PIDPath(cfg.Paths.DataDir)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := library.Open(cfg)
	if err != nil {
		logger.Error("open library store", logging.Error(err))
		return err
	}
	defer store.Close()

	model := llm.NewClient(llm.Config{
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	speech := transcriber.NewService(transcriber.Config{
		Model:               cfg.Transcriber.Model,
		WhisperBinary:       cfg.Transcriber.WhisperBinary,
		FetcherBinary:       cfg.Transcriber.FetcherBinary,
		FetchTimeoutSeconds: cfg.Transcriber.FetchTimeout,
		TimeoutSeconds:      cfg.Transcriber.TimeoutSeconds,
		SubtitleLanguages:   cfg.Transcriber.SubtitleLanguages,
		ScratchDir:          cfg.Paths.ScratchDir,
	})

	pipeline := enrich.NewPipeline(store, speech, model, cfg.Taxonomy.Categories, cfg.Taxonomy.Areas, logger)
	jobs := enrich.NewStore(store)
	controller := enrich.NewController(jobs, store, pipeline, enrich.Settings{
		ItemDelay: time.Duration(cfg.Enrichment.ItemDelaySeconds) * time.Second,
	}, logger)

	d, err := daemon.New(cfg, store, jobs, controller, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := ipc.SocketPath(cfg.Paths.DataDir)
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String("hint", "check configuration and library database access"))
	}

	<-signalCtx.Done()
	logger.Info("curator daemon shutting down")
	return nil
}

// PIDPath returns the daemon pid file location, next to the lock and socket.
func PIDPath(dataDir string) string {
	return filepath.Join(dataDir, "curatord.pid")
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
