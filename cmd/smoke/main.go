// README: Smoke runner; executes HTTP contract checks plus optional Postgres/Redis checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)

	fmt.Println("\n== Summary ==")
	counts := map[Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", counts[StatusPass], counts[StatusFail], counts[StatusSkip])

	if counts[StatusFail] > 0 || (cfg.Strict && counts[StatusSkip] > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	DSN         string
	RedisAddr   string
	IDToken     string
	Live        bool
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("WAYFARE_SMOKE_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("WAYFARE_DB_DSN"), "Postgres DSN (empty skips DB checks)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("WAYFARE_REDIS_ADDR"), "Redis address (empty skips quota checks)")
	flag.StringVar(&cfg.IDToken, "id-token", os.Getenv("WAYFARE_SMOKE_ID_TOKEN"), "Firebase ID token for authenticated checks")
	flag.BoolVar(&cfg.Live, "live", envOrDefaultBool("WAYFARE_SMOKE_LIVE", false), "Run checks that call Amadeus and the chat backend")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("WAYFARE_SMOKE_STRICT", false), "Treat skipped checks as failures")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("WAYFARE_SMOKE_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("WAYFARE_SMOKE_CONCURRENCY", 10), "Workers for the load check")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("WAYFARE_SMOKE_DURATION", 5*time.Second), "Duration of the load check")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}
