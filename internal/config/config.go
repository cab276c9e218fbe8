package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "DEVINSIGHTS_CONFIG"
	portEnv            = "PORT"
	logLevelEnv        = "LOG_LEVEL"
	llmProviderEnv     = "LLM_PROVIDER"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv     = "GEMINI_MODEL"
	chatGPTAPIKeyEnv   = "CHATGPT_API_KEY"
	chatGPTModelEnv    = "CHATGPT_MODEL"
	chromePathEnv      = "CHROME_PATH"
	browserHeadlessEnv = "BROWSER_HEADLESS"

	ProviderGemini  = "gemini"
	ProviderChatGPT = "chatgpt"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Logging  LoggingConfig `yaml:"logging"`
	Search   SearchConfig  `yaml:"search"`
	Profiles ProfileConfig `yaml:"profiles"`
	Browser  BrowserConfig `yaml:"browser"`
	LLM      LLMConfig     `yaml:"llm"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SearchConfig drives the search results harvester.
type SearchConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	DefaultTerm string        `yaml:"defaultTerm"`
	MaxPages    int           `yaml:"maxPages"`
	PageDelay   time.Duration `yaml:"pageDelay"`
}

// ProfileConfig drives the profile page harvester.
type ProfileConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// BrowserConfig configures the headless Chrome session.
type BrowserConfig struct {
	Headless          bool          `yaml:"headless"`
	ExecPath          string        `yaml:"execPath"`
	UserAgent         string        `yaml:"userAgent"`
	ViewportWidth     int           `yaml:"viewportWidth"`
	ViewportHeight    int           `yaml:"viewportHeight"`
	NavigationTimeout time.Duration `yaml:"navigationTimeout"`
	SelectorTimeout   time.Duration `yaml:"selectorTimeout"`
}

// LLMConfig selects and configures the language-model provider.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Temperature float32       `yaml:"temperature"`
	Delay       time.Duration `yaml:"delay"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Gemini      GeminiConfig  `yaml:"gemini"`
	ChatGPT     ChatGPTConfig `yaml:"chatgpt"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseUrl"`
}

// ChatGPTConfig defines how to contact the ChatGPT API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = fileCfg
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg
}

// Parse decodes YAML on top of the defaults; keys absent from raw keep their default values.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), fmt.Errorf("decode yaml: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Validate checks that the externally supplied scalars are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("server port is required (%s)", portEnv)
	}
	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("gemini api key is required (%s)", geminiAPIKeyEnv)
		}
	case ProviderChatGPT:
		if c.LLM.ChatGPT.APIKey == "" {
			return fmt.Errorf("chatgpt api key is required (%s)", chatGPTAPIKeyEnv)
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.LLM.Gemini.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.LLM.Gemini.Model = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.LLM.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.LLM.ChatGPT.Model = v
	}

	if v := os.Getenv(chromePathEnv); v != "" {
		c.Browser.ExecPath = v
	}

	if v := os.Getenv(browserHeadlessEnv); v != "" {
		if headless, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = headless
		}
	}
}

func (c *Config) normalize() {
	def := Default()

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.LLM.MaxAttempts < 1 {
		c.LLM.MaxAttempts = 1
	}
	if c.Search.MaxPages < 1 {
		c.Search.MaxPages = def.Search.MaxPages
	}
	if strings.TrimSpace(c.Search.DefaultTerm) == "" {
		c.Search.DefaultTerm = def.Search.DefaultTerm
	}
	if c.Browser.NavigationTimeout <= 0 {
		c.Browser.NavigationTimeout = def.Browser.NavigationTimeout
	}
	if c.Browser.SelectorTimeout <= 0 {
		c.Browser.SelectorTimeout = def.Browser.SelectorTimeout
	}
}

// Default returns the settings used when no file or environment overrides are present.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: "8000"},
		Logging: LoggingConfig{Level: "info"},
		Search: SearchConfig{
			BaseURL:     "https://github.com",
			DefaultTerm: "Javascript Developer",
			MaxPages:    3,
			PageDelay:   0,
		},
		Profiles: ProfileConfig{Delay: 2 * time.Second},
		Browser: BrowserConfig{
			Headless:          true,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			ViewportWidth:     1366,
			ViewportHeight:    768,
			NavigationTimeout: 30 * time.Second,
			SelectorTimeout:   10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			Temperature: 0.1,
			Delay:       2 * time.Second,
			MaxAttempts: 1,
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
			ChatGPT: ChatGPTConfig{
				Endpoint:     "https://api.openai.com/v1/chat/completions",
				Model:        "gpt-4o-mini",
				SystemPrompt: "You analyze GitHub developer profiles and answer with a single JSON object.",
			},
		},
	}
}
