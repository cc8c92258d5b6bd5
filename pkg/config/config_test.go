package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("SF_TEST_STR", "value")
	t.Setenv("SF_TEST_INT", "nope")
	t.Setenv("SF_TEST_DUR", "250ms")

	assert.Equal(t, "value", EnvDefault("SF_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("SF_TEST_MISSING", "def"))
	assert.Equal(t, 7, EnvIntDefault("SF_TEST_INT", 7))
	assert.Equal(t, 250*time.Millisecond, EnvDurationDefault("SF_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("SF_TEST_MISSING", time.Second))
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://api.test/")
	t.Setenv("STOREFRONT_TIMEOUT", "2s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "http://api.test/", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.Equal(t, 8080, cfg.ServerPort)
}
