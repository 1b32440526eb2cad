package config

import (
	"strconv"
	"time"

	"medinfo-go-app/internal/helpers"
)

type AppConfig struct {
	Fetch FetchConfig `json:"fetch"`
	Cache CacheConfig `json:"cache"`
	Batch BatchConfig `json:"batch"`
}

// FetchConfig gates every upstream source; each source gets its own
// limiter instance built from these numbers.
type FetchConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

type CacheConfig struct {
	TableName   string        `json:"table_name"`
	DocumentTTL time.Duration `json:"document_ttl"`
}

type BatchConfig struct {
	WorkerCount int `json:"worker_count"`
}

// Load reads the app configuration from the environment, with defaults
// suitable for local development.
func Load() AppConfig {
	rps, _ := strconv.ParseFloat(helpers.GetEnvOr("FETCH_REQUESTS_PER_SECOND", "3"), 64)
	burst, _ := strconv.Atoi(helpers.GetEnvOr("FETCH_BURST", "5"))
	ttlSeconds, _ := strconv.Atoi(helpers.GetEnvOr("CACHE_TTL_SECONDS", "3600"))
	workers, _ := strconv.Atoi(helpers.GetEnvOr("APPROVAL_WORKER_COUNT", "4"))

	return AppConfig{
		Fetch: FetchConfig{RequestsPerSecond: rps, Burst: burst},
		Cache: CacheConfig{
			TableName:   helpers.GetEnvOr("CACHE_TABLE", ""),
			DocumentTTL: time.Duration(ttlSeconds) * time.Second,
		},
		Batch: BatchConfig{WorkerCount: workers},
	}
}
