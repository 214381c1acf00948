package main

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/logger"
	"github.com/woozymasta/orthomap/internal/processor"
	"github.com/woozymasta/orthomap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr        string `short:"a" long:"addr"        env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port        int    `short:"p" long:"port"        env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	MaxSize     int    `short:"m" long:"max-size"    env:"MAX_SIZE"       description:"Largest globe size a request may ask for"`
	CacheSize   int    `long:"cache-size"            env:"CACHE_SIZE"     description:"Number of rendered images kept in memory"`
	Concurrency int    `long:"concurrency"           env:"CONCURRENCY"    description:"Concurrency for loading sources" default:"4"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.MaxSize > 0 {
		cfg.Server.MaxSize = opts.MaxSize
	}
	if opts.CacheSize > 0 {
		cfg.Server.CacheSize = opts.CacheSize
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
		},
		Timeout: 30 * time.Second,
	}

	samples := processor.LoadAll(client, cfg.Sources, opts.Concurrency)

	srvCtx, err := server.NewServerContext(cfg, samples)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("samples_loaded", len(samples)).
		Int("max_size", cfg.Server.MaxSize).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
