/*
# Module: logger/logger.go
Global zerolog logger setup.

## Linked Modules
(None - standalone setup)

## Tags
logging, zerolog

## Exports
Init

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "logger/logger.go" ;
    code:description "Global zerolog logger setup" ;
    code:exports :Init ;
    code:tags "logging", "zerolog" .
<!-- End LinkedDoc RDF -->
*/
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and output. Development uses the console writer.
func Init(environment, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLevel(level))

	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	log.Info().Str("level", zerolog.GlobalLevel().String()).Msg("Logger initialized")
	return log.Logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
