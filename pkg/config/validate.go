package config

import (
	"fmt"
	"strings"
)

// Validate returns configuration problems found in cfg.
// It does not mutate cfg.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{fmt.Errorf("config is nil")}
	}

	var errs []error

	cc := cfg.Components
	if cc.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("components.timeout_sec must be > 0"))
	}
	if cc.ClickLimit < 0 {
		errs = append(errs, fmt.Errorf("components.click_limit must be >= 0"))
	}
	if cc.EditsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("components.edits_per_second must be > 0"))
	}
	if strings.TrimSpace(cc.TimeoutNotice) == "" {
		errs = append(errs, fmt.Errorf("components.timeout_notice must not be empty"))
	}
	if strings.TrimSpace(cc.NotAllowedNotice) == "" {
		errs = append(errs, fmt.Errorf("components.not_allowed_notice must not be empty"))
	}
	errs = append(errs, validateNonEmptyStringList("components.allow_from", cc.AllowFrom)...)

	if cfg.Gateway.Port <= 0 || cfg.Gateway.Port > 65535 {
		errs = append(errs, fmt.Errorf("gateway.port must be in 1..65535"))
	}

	if cfg.Logging.Enabled {
		if cfg.Logging.Dir == "" {
			errs = append(errs, fmt.Errorf("logging.dir is required when logging.enabled=true"))
		}
		if cfg.Logging.Filename == "" {
			errs = append(errs, fmt.Errorf("logging.filename is required when logging.enabled=true"))
		}
		if cfg.Logging.MaxSizeMB <= 0 {
			errs = append(errs, fmt.Errorf("logging.max_size_mb must be > 0"))
		}
		if cfg.Logging.RetentionDays <= 0 {
			errs = append(errs, fmt.Errorf("logging.retention_days must be > 0"))
		}
	}

	if cfg.Channels.Telegram.Enabled && cfg.Channels.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("channels.telegram.token is required when channels.telegram.enabled=true"))
	}
	if cfg.Channels.Discord.Enabled && cfg.Channels.Discord.Token == "" {
		errs = append(errs, fmt.Errorf("channels.discord.token is required when channels.discord.enabled=true"))
	}

	return errs
}

func validateNonEmptyStringList(path string, values []string) []error {
	if len(values) == 0 {
		return nil
	}
	var errs []error
	for i, value := range values {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] must not be empty", path, i))
		}
	}
	return errs
}
