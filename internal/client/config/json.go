package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/CS-Kiran/Manana/internal/flagx"
	"github.com/CS-Kiran/Manana/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StateDirName   string         `json:"state_dir_name"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. Missing flag means no JSON is loaded. Read or unmarshal
// errors panic; the config layers run before anything else starts.
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.StateDirName != "" {
		cfg.StateDirName = jc.StateDirName
	}
}
