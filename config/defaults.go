package config

// DefaultEndpoint is the Cloudflare Worker proxy the app ships against.
const DefaultEndpoint = "https://deepseek-r1.istebutolga.workers.dev/"

// DefaultAssistantName is the assistant persona used in the system
// preamble and the chat header.
const DefaultAssistantName = "CepyX"

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/cepyx",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			ID:       "worker",
			Endpoint: DefaultEndpoint,
		},
		AssistantName: DefaultAssistantName,
		ShowThinking:  false,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# CepyX System Configuration
# Location: ~/.config/cepyx/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversations and user config are stored
data_directory = "~/.local/share/cepyx"
`
}

func GenerateUserConfigTemplate() string {
	return `# CepyX User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Assistant persona shown in the header and used in the system prompt
assistant_name = "CepyX"

# Show extracted reasoning traces under assistant replies
show_thinking = false

[provider]
# Provider backend: "worker", "ollama", "openai", or "anthropic"
id = "worker"

# Worker proxy endpoint (used when id = "worker")
endpoint = "https://deepseek-r1.istebutolga.workers.dev/"

# API base URL for SDK-backed providers (optional)
base_url = ""

# Model name (optional; the worker backend picks its own model)
model = ""

# API key for openai/anthropic backends
api_key = ""
`
}
