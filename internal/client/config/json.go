package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/smehub/internal/flagx"
	"github.com/dmitrijs2005/smehub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Intervals are timex.Duration, so "3s" and integer nanoseconds both work.
// Keys missing from the file leave the current value in place.
type JsonConfig struct {
	ServerEndpointAddr  string          `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabasePath        string          `json:"database_path"`
	ReportsDir          string          `json:"reports_dir"`
	LogFormat           string          `json:"log_format"`
}

// parseJson overlays Config with values loaded from the file named by the
// -c or -config flag. Without the flag it does nothing. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.ReportsDir, jc.ReportsDir)
	overlay(&cfg.LogFormat, jc.LogFormat)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
