package market

import (
	"fmt"
	"os"
	"strings"
)

// APIKeyFromEnv reads a provider credential from the environment. A missing
// key or the vendors' shared "demo" placeholder is a configuration error and
// must stop provider construction before any network call happens.
func APIKeyFromEnv(envName string) (string, error) {
	key := strings.TrimSpace(os.Getenv(envName))
	if key == "" {
		return "", fmt.Errorf("market: %s is not set", envName)
	}
	if strings.EqualFold(key, "demo") {
		return "", fmt.Errorf("market: %s holds the demo placeholder key", envName)
	}
	return key, nil
}
