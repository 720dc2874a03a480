package config

import (
	"flag"
	"os"

	"github.com/matchforge/gatherer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN
//	-k string     Steam API key
//	-m string     AMQP broker URI
//	-q string     AMQP queue name
//	-r uint       chain-source retry attempts for transient faults
//	-b duration   initial retry backoff (e.g., "500ms")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-m", "-q", "-r", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SteamAPIKey, "k", config.SteamAPIKey, "steam api key")
	fs.StringVar(&config.AMQPURI, "m", config.AMQPURI, "amqp broker uri")
	fs.StringVar(&config.AMQPQueue, "q", config.AMQPQueue, "amqp queue name")
	fs.Uint64Var(&config.APIRetryAttempts, "r", config.APIRetryAttempts, "chain source retry attempts")
	fs.DurationVar(&config.APIRetryBackoff, "b", config.APIRetryBackoff, "chain source retry backoff")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
