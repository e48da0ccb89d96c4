package config

import (
	"strconv"
	"time"
)

// StopInterval returns the scheduling gap between consecutive stop sequence
// numbers when a trip is created, controlled by STOP_INTERVAL_MINUTES
// (default 2).
func StopInterval() time.Duration {
	raw := getEnv("STOP_INTERVAL_MINUTES", "2")
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		minutes = 2
	}
	return time.Duration(minutes) * time.Minute
}
