// gossipsim serves the beastmaster menu protocol over WebSocket with a
// simulated player per connection. Connect with any WebSocket client and
// send action codes, "menu", or chat commands; query parameters shape the
// player (?class=3&level=80&admin=1&talent=1).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mistvale/beastmaster/internal/beastmaster"
	"github.com/mistvale/beastmaster/internal/config"
	"github.com/mistvale/beastmaster/internal/database"
	"github.com/mistvale/beastmaster/internal/logger"
	"github.com/mistvale/beastmaster/internal/server"
)

func main() {
	address := flag.String("addr", ":4460", "WebSocket listen address")
	configPath := flag.String("config", "data/beastmaster.yaml", "Path to beastmaster config YAML file")
	dbPath := flag.String("db", "data/beastmaster.db", "Path to SQLite database file")
	loggingPath := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingPath)
	logger.Initialize(logConfig)

	cfg, warnings, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	for _, warning := range warnings {
		logger.Warning(warning)
	}

	db, err := database.OpenSQLite(*dbPath)
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}
	defer db.Close()

	engine := beastmaster.New(cfg, db, server.Sender{})
	srv := server.New(engine, *configPath)

	logger.Info("Starting beastmaster simulator", "address", *address)
	if err := srv.Start(*address); err != nil {
		logger.Error("Simulator stopped", "error", err)
		os.Exit(1)
	}
}
