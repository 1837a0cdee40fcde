package config

// DefaultLocalConfigPath is the project config file read by default
const DefaultLocalConfigPath = ".usernotify/config.json"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"app_id":           "",
		"protocol":         "",
		"sound_policy":     "platform",
		"state_dir":        "~/.usernotify/state",
		"categories_file":  "",
		"log_level":        "info",
		"log_file":         "",
		"response_timeout": 0,
	}
}
