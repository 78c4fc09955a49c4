package config

import (
	"os"
	"strconv"
	"time"

	"github.com/netprobe-io/netprobe/internal/env"
)

func initInt(variable *int, name string, defaultValue int) {
	str := os.Getenv(env.ConfigPrefix + name)
	val, err := strconv.Atoi(str)
	if len(str) == 0 || err != nil {
		*variable = defaultValue
		return
	}
	*variable = val
}

func initBool(variable *bool, name string, defaultValue bool) {
	str := os.Getenv(env.ConfigPrefix + name)
	val, err := strconv.ParseBool(str)
	if len(str) == 0 || err != nil {
		*variable = defaultValue
		return
	}
	*variable = val
}

func initString(variable *string, name string, defaultValue string) {
	str := os.Getenv(env.ConfigPrefix + name)
	if len(str) == 0 {
		*variable = defaultValue
		return
	}
	*variable = str
}

// initDuration accepts any format time.ParseDuration understands ("2s", "100ms")
func initDuration(variable *time.Duration, name string, defaultValue time.Duration) {
	str := os.Getenv(env.ConfigPrefix + name)
	val, err := time.ParseDuration(str)
	if len(str) == 0 || err != nil || val <= 0 {
		*variable = defaultValue
		return
	}
	*variable = val
}
