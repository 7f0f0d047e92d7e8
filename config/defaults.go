package config

// DefaultTemperature is the sampling temperature used when the user has not
// configured one.
const DefaultTemperature = 0.3

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/membrain",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		UILanguage:   "en",
		ChatLanguage: "English",
		Temperature:  DefaultTemperature,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# MemBrain System Configuration
# Location: ~/.config/membrain/settings.toml
# This file uses TOML format: https://toml.io

# Directory where chat history, references and user config are stored
data_directory = "~/.local/share/membrain"
`
}

func GenerateUserConfigTemplate() string {
	return `# MemBrain User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Language of status and prompt texts ("en" or "zh")
ui_language = "en"

# Language the assistant is asked to answer in
chat_language = "English"

# Sampling temperature for generated answers
temperature = 0.3
`
}
