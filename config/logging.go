package config

import (
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// SetupLogging installs the apex/log handler and level. Unknown levels fall
// back to info.
func SetupLogging(level, format string) {
	if strings.EqualFold(format, "json") {
		log.SetHandler(json.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
