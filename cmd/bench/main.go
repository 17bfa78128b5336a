// README: Smoke and load runner for a deployed vtc-api; executes HTTP/DB/Redis checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	counts := summarize(results)
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", counts[StatusPass], counts[StatusFail], counts[StatusSkip])

	if counts[StatusFail] > 0 || (cfg.Strict && counts[StatusSkip] > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationPath  string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
	// Destination of the sample estimate. Origin is always the vehicle base.
	Destination string
	PickupDate  string
}

func loadConfig() Config {
	var cfg Config
	tomorrow := time.Now().AddDate(0, 0, 1).Format(time.DateOnly)
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("VTC_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("VTC_DB_DSN", ""), "Postgres DSN (empty: skip DB checks)")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("VTC_REDIS_ADDR", ""), "Redis address (empty: skip cache checks)")
	flag.StringVar(&cfg.MigrationPath, "migration", envOrDefault("VTC_BENCH_MIGRATION", "migrations/0001_catalog.sql"), "Migration SQL path")
	flag.BoolVar(&cfg.ApplyMigration, "apply-migration", envOrDefaultBool("VTC_BENCH_APPLY_MIGRATION", false), "Apply migration SQL before tests")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("VTC_BENCH_STRICT", false), "Fail on skipped tests")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("VTC_BENCH_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("VTC_BENCH_CONCURRENCY", 10), "Concurrency for perf tests")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("VTC_BENCH_DURATION", 10*time.Second), "Duration for perf tests")
	flag.StringVar(&cfg.Destination, "destination", envOrDefault("VTC_BENCH_DESTINATION", "Aeropuerto de Pamplona"), "Destination for the sample estimate")
	flag.StringVar(&cfg.PickupDate, "date", tomorrow, "Pickup date for the sample estimate")
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
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
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
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
