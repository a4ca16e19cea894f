package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"watchsync-api/internal/config"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Legacy store: %s", presence(strings.TrimSpace(cfg.LegacyDB.DSN) != "")),
		fmt.Sprintf("Canonical store: %s", presence(strings.TrimSpace(cfg.CanonicalDB.DSN) != "")),
		fmt.Sprintf("Redis: %s", presence(strings.TrimSpace(cfg.Redis.Host) != "")),
		fmt.Sprintf("Collect defaults: interval=%s lookback=%d", cfg.Collect.Interval, cfg.Collect.Lookback),
		providersLine(cfg),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func providersLine(cfg *config.Config) string {
	switch {
	case cfg.Providers.Value != nil:
		return fmt.Sprintf("Providers config: %s (chain: %s)",
			cfg.Providers.File, strings.Join(cfg.Providers.Value.Chain, " -> "))
	case strings.TrimSpace(cfg.Providers.File) != "":
		return fmt.Sprintf("Providers config: %s", cfg.Providers.File)
	default:
		return "Providers config: not configured"
	}
}
