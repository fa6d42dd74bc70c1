// Package settings gathers the console's environment configuration in one
// place so commands and tests read the same defaults.
package settings

import (
	"errors"
	"strconv"
	"time"

	"github.com/md-rashed-zaman/bookingdesk/libs/config"
	"github.com/md-rashed-zaman/bookingdesk/libs/kafkax"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/invalidation"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
)

const DefaultAPIURL = "http://localhost:3000/api"

type Settings struct {
	APIURL    string
	Token     string
	Timeout   time.Duration
	RateLimit float64
	LogLevel  string

	Query query.Options

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (Settings, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	s := Settings{
		Token:         config.String("BOOKING_TOKEN", ""),
		LogLevel:      config.String("LOG_LEVEL", "warn"),
		RedisAddr:     config.String("REDIS_ADDR", ""),
		RedisPassword: config.String("REDIS_PASSWORD", ""),
		KafkaBrokers:  kafkax.SplitBrokers(config.String("KAFKA_BROKERS", "")),
		KafkaTopic:    config.String("KAFKA_INVALIDATION_TOPIC", invalidation.DefaultTopic),
		Query:         query.DefaultOptions(),
	}

	apiURL, err := config.URL("BOOKING_API_URL", DefaultAPIURL)
	collect(err)
	if apiURL != nil {
		s.APIURL = apiURL.String()
	}

	s.Timeout, err = config.Seconds("BOOKING_TIMEOUT_SECONDS", 10*time.Second)
	collect(err)

	rate, err := strconv.ParseFloat(config.String("BOOKING_RATE_LIMIT_PER_SECOND", "10"), 64)
	if err != nil || rate < 0 {
		errs = append(errs, errors.New("BOOKING_RATE_LIMIT_PER_SECOND must be a non-negative number"))
	}
	s.RateLimit = rate

	s.Query.StaleTime, err = config.Seconds("QUERY_STALE_SECONDS", s.Query.StaleTime)
	collect(err)
	s.Query.CacheTime, err = config.Seconds("QUERY_CACHE_SECONDS", s.Query.CacheTime)
	collect(err)
	s.Query.Timeout, err = config.Seconds("QUERY_TIMEOUT_SECONDS", s.Query.Timeout)
	collect(err)
	s.Query.Retry, err = config.Int("QUERY_RETRY", s.Query.Retry)
	collect(err)
	if s.Query.Retry < 0 {
		errs = append(errs, errors.New("QUERY_RETRY must not be negative"))
	}

	s.RedisDB, err = config.Int("REDIS_DB", 0)
	collect(err)

	if len(errs) > 0 {
		return Settings{}, errors.Join(errs...)
	}
	return s, nil
}
