package main

import (
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"askwiki/internal/api"
	"askwiki/internal/config"
	"askwiki/internal/history"
	"askwiki/internal/redisdb"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	var store *history.Store
	if cfg.Database.DSN != "" {
		store, err = history.Open(cfg.Database.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "History DB error: %v\n", err)
			os.Exit(1)
		}
	} else {
		log.Printf("[Main] no database DSN configured, history disabled")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redisdb.NewClient(cfg)
	} else {
		log.Printf("[Main] no redis configured, rate limiting disabled")
	}

	srv := api.NewServer(cfg, store, rdb)
	r := srv.SetupRouter()
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
