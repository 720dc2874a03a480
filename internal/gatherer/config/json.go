package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/matchforge/gatherer/internal/flagx"
	"github.com/matchforge/gatherer/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "500ms" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	SteamAPIKey      string         `json:"steam_api_key"`
	AMQPURI          string         `json:"amqp_uri"`
	AMQPQueue        string         `json:"amqp_queue"`
	APIRetryAttempts uint64         `json:"api_retry_attempts"`
	APIRetryBackoff  timex.Duration `json:"api_retry_backoff"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SteamAPIKey = c.SteamAPIKey
	config.AMQPURI = c.AMQPURI
	config.AMQPQueue = c.AMQPQueue
	config.APIRetryAttempts = c.APIRetryAttempts
	config.APIRetryBackoff = time.Duration(c.APIRetryBackoff.Duration)
}
