package settings

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BOOKING_API_URL", "BOOKING_TOKEN", "BOOKING_TIMEOUT_SECONDS", "BOOKING_RATE_LIMIT_PER_SECOND",
		"QUERY_STALE_SECONDS", "QUERY_CACHE_SECONDS", "QUERY_RETRY", "QUERY_TIMEOUT_SECONDS",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "KAFKA_BROKERS", "KAFKA_INVALIDATION_TOPIC", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	s, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.APIURL != DefaultAPIURL {
		t.Fatalf("unexpected api url %q", s.APIURL)
	}
	if s.Timeout != 10*time.Second || s.RateLimit != 10 {
		t.Fatalf("unexpected transport settings %+v", s)
	}
	if s.Query.StaleTime != 5*time.Minute || s.Query.CacheTime != 30*time.Minute || s.Query.Retry != 3 {
		t.Fatalf("unexpected query options %+v", s.Query)
	}
	if s.KafkaTopic != "console.query.invalidated.v1" || len(s.KafkaBrokers) != 0 {
		t.Fatalf("unexpected kafka settings %+v", s)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKING_API_URL", "https://api.example.com/v1")
	t.Setenv("QUERY_STALE_SECONDS", "0")
	t.Setenv("QUERY_RETRY", "1")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REDIS_DB", "2")

	s, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.APIURL != "https://api.example.com/v1" || s.Query.StaleTime != 0 || s.Query.Retry != 1 {
		t.Fatalf("unexpected settings %+v", s)
	}
	if len(s.KafkaBrokers) != 2 || s.KafkaBrokers[1] != "k2:9092" || s.RedisDB != 2 {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestLoadReportsEveryBadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKING_API_URL", "localhost:3000")
	t.Setenv("QUERY_RETRY", "-1")
	t.Setenv("BOOKING_TIMEOUT_SECONDS", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"BOOKING_API_URL", "QUERY_RETRY", "BOOKING_TIMEOUT_SECONDS"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s in %v", key, err)
		}
	}
}
