package util

import (
	"os"
	"strconv"
	"strings"
)

const EnvironmentPrefix = "TICKETOFFICE_"

// GetEnvironmentVariables returns every TICKETOFFICE_ prefixed variable keyed by its full name
func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		if !strings.HasPrefix(pair[0], EnvironmentPrefix) {
			continue
		}

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

func GetEnvironmentInt(env map[string]string, name string, fallback int) (int, error) {
	if env[name] == "" {
		return fallback, nil
	}

	return strconv.Atoi(env[name])
}
