package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)
		if len(pair) != 2 {
			continue
		}

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentFlag reports whether the named variable is set to YES
func EnvironmentFlag(name string) bool {
	return strings.EqualFold(GetEnvironmentVariables()[name], "YES")
}
