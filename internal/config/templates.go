package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template()), 0o600)
}

const defaultTemplate = `# chunk type used when a command is given no explicit type
default_chunk_type = "ruSt"

# largest chunk payload accepted when reading files (bytes)
max_payload_bytes = 16777216

# trace | debug | info | warn | error | off
# unset: PNGME_LOG_LEVEL or the built-in default applies
# log_level = "info"
`
