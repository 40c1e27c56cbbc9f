package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/version"
	"github.com/dianajengpr/copywritingassistant/internal/server"
)

func main() {
	port := flag.Int("port", 0, "HTTP listen port (default: 8080)")
	envFile := flag.String("env-file", "", "load environment variables from this file")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("copywriter-server %s (%s)\n", version.Version, version.Commit)
		return
	}

	if *envFile != "" {
		if err := config.LoadDotEnv(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		_ = config.LoadDotEnv()
	}

	cfg := config.LoadOrDefault()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// no terminal to prompt on; stored keys need COPYWRITER_PIN
	creds := config.NewCredentials(cfg, nil)
	if err := server.Run(cfg, creds, log); err != nil {
		log.Error("server stopped", "error", err)
		log.Sync()
		os.Exit(1)
	}
}
