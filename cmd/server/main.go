package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillforge/fitscore/internal/api"
	"github.com/skillforge/fitscore/internal/config"
	"github.com/skillforge/fitscore/pkg/openapi"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default "+config.BaseConfigFile+")")
	addr := flag.String("addr", "", "listen address override (host:port)")
	dsn := flag.String("dsn", "", "database connection string override")
	logLevel := flag.String("log-level", "", "log level override (debug|info|warn|error)")
	specOut := flag.String("openapi", "", "write the OpenAPI spec to the given file and exit")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath, config.Overrides{
		Addr:     *addr,
		Dsn:      *dsn,
		LogLevel: *logLevel,
	})
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	if *specOut != "" {
		if err := openapi.WriteJSON(api.BuildSpec(cfg), *specOut); err != nil {
			log.Fatal("openapi write failed: ", err)
		}
		return
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	server.infra.Logger.Info(
		"fitscore starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)

	if err := server.Start(); err != nil {
		log.Fatal("server start failed: ", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := server.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		server.infra.Logger.Error("shutdown error", "error", err)
	}

	server.infra.Logger.Info("fitscore stopped")
}
