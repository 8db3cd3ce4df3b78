package config

const (
	// Prefix of all environment configurations
	EnvConfigPrefix = "SITECHECK_"
	// Environment variable with the path of the config file
	ConfigFilePath = "SITECHECK_CONFIG_FILE"
)
