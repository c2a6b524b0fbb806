package shared

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // HOTEL_TZ must resolve on minimal images

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	APIBase      string
	APIRPS       int
	SessionTTL   time.Duration
	RememberTTL  time.Duration
	PageIdle     time.Duration
	HotelTZ      *time.Location
	CookieSecure bool
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("not a number; using default")
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/gogo?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),
		APIBase:      env("API_BASE_URL", "http://localhost:3333"),
		APIRPS:       atoi("API_RPS", 10),
		SessionTTL:   time.Duration(atoi("SESSION_TTL_SECONDS", 12*3600)) * time.Second,
		RememberTTL:  time.Duration(atoi("REMEMBER_DAYS", 30)) * 24 * time.Hour,
		PageIdle:     time.Duration(atoi("PAGE_IDLE_SECONDS", 1800)) * time.Second,
		CookieSecure: truthy(env("COOKIE_SECURE", "false")),
	}
	tz := env("HOTEL_TZ", "Asia/Bangkok")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn().Err(err).Str("tz", tz).Msg("unknown HOTEL_TZ; using UTC")
		loc = time.UTC
	}
	c.HotelTZ = loc
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
