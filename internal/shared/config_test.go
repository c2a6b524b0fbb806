package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "API_BASE_URL", "API_RPS", "REDIS_DB",
		"SESSION_TTL_SECONDS", "REMEMBER_DAYS", "PAGE_IDLE_SECONDS", "HOTEL_TZ", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "prod", c.AppEnv)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "http://localhost:3333", c.APIBase)
	assert.Equal(t, 10, c.APIRPS)
	assert.Equal(t, 0, c.RedisDB)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.Equal(t, 30*24*time.Hour, c.RememberTTL)
	assert.Equal(t, 30*time.Minute, c.PageIdle)
	assert.Equal(t, "Asia/Bangkok", c.HotelTZ.String())
	assert.False(t, c.CookieSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	t.Setenv("API_RPS", "oops")
	t.Setenv("HOTEL_TZ", "Nowhere/Land")
	t.Setenv("COOKIE_SECURE", "yes")
	t.Setenv("REMEMBER_DAYS", "7")
	c := Load()
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, 10, c.APIRPS)
	assert.Equal(t, time.UTC, c.HotelTZ)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 7*24*time.Hour, c.RememberTTL)
}
