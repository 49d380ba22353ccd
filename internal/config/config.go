// Package config handles loading and validating the supportdesk configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the supportdesk daemon.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Interpreter   InterpreterConfig   `mapstructure:"interpreter"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Registry      RegistryConfig      `mapstructure:"registry"`
	Remote        RemoteConfig        `mapstructure:"remote"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	HTTPPort    int  `mapstructure:"http_port"`
	GRPCEnabled bool `mapstructure:"grpc_enabled"`
	GRPCPort    int  `mapstructure:"grpc_port"`
}

// CORSConfig lists the origins browsers may call the API from.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// InterpreterConfig selects the classification/composition strategy.
type InterpreterConfig struct {
	Backend string `mapstructure:"backend"` // "auto", "local" or "openai"
}

// LLMConfig holds the language-model service settings.
type LLMConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"` // empty for api.openai.com
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

// TranscriptionConfig holds the speech-to-text endpoint settings.
type TranscriptionConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Field    string        `mapstructure:"field"`    // multipart field carrying the audio
	Language string        `mapstructure:"language"` // ISO-639-1 hint, optional
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RegistryConfig points at the allow-listed command file.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// RemoteConfig holds the WinRM session settings.
type RemoteConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	HTTPS          bool          `mapstructure:"https"`
	Transport      string        `mapstructure:"transport"`       // "basic" or "ntlm"
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	CertValidation string        `mapstructure:"cert_validation"` // "validate" or "ignore"
	Timeout        time.Duration `mapstructure:"timeout"`
	OutputEncoding string        `mapstructure:"output_encoding"`
}

// InsecureSkipVerify reports whether the operator opted out of certificate validation.
func (r RemoteConfig) InsecureSkipVerify() bool {
	return strings.EqualFold(r.CertValidation, CertIgnore)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Certificate validation modes.
const (
	CertValidate = "validate"
	CertIgnore   = "ignore"
)

// DefaultSystemPrompt is the composer persona used when none is configured.
const DefaultSystemPrompt = "Eres un agente de soporte técnico empático, claro y breve. " +
	"Explicas el resultado en español y propones siguiente paso concreto."

// legacyEnv maps config keys to the flat environment names used by earlier
// deployments. SUPPORTDESK_* variables take precedence.
var legacyEnv = map[string]string{
	"cors.allowed_origins":   "BACKEND_CORS_ORIGINS",
	"llm.api_key":            "OPENAI_API_KEY",
	"llm.model":              "OPENAI_MODEL",
	"llm.system_prompt":      "HUMAN_IA_SYSTEM_PROMPT",
	"transcription.endpoint": "WHISPER_HTTP_URL",
	"transcription.field":    "WHISPER_AUDIO_FIELD",
	"transcription.language": "WHISPER_LANGUAGE",
	"registry.path":          "ALLOWED_COMMANDS_FILE",
	"remote.host":            "WINRM_HOST",
	"remote.port":            "WINRM_PORT",
	"remote.transport":       "WINRM_TRANSPORT",
	"remote.username":        "WINRM_USERNAME",
	"remote.password":        "WINRM_PASSWORD",
	"remote.cert_validation": "WINRM_SERVER_CERT_VALIDATION",
}

const envPrefix = "SUPPORTDESK"

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./supportdesk.yaml, ./configs/supportdesk.yaml, /etc/supportdesk/supportdesk.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.http_port", 8000)
	v.SetDefault("server.grpc_enabled", false)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("interpreter.backend", "auto")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.system_prompt", DefaultSystemPrompt)
	v.SetDefault("transcription.endpoint", "http://127.0.0.1:5000/transcribe")
	v.SetDefault("transcription.field", "audio")
	v.SetDefault("transcription.language", "es")
	v.SetDefault("transcription.timeout", 2*time.Minute)
	v.SetDefault("registry.path", "./configs/allowed_commands.json")
	v.SetDefault("remote.host", "")
	v.SetDefault("remote.port", 5985)
	v.SetDefault("remote.https", false)
	v.SetDefault("remote.transport", "ntlm")
	v.SetDefault("remote.username", "")
	v.SetDefault("remote.password", "")
	v.SetDefault("remote.cert_validation", CertValidate)
	v.SetDefault("remote.timeout", 5*time.Minute)
	v.SetDefault("remote.output_encoding", "utf-8")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("supportdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/supportdesk")
	}

	// Environment variables: SUPPORTDESK_REMOTE_HOST, SUPPORTDESK_LLM_API_KEY, etc.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	// Read config file (optional: env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Origins arrive comma-separated from the environment.
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.LLM.APIKey = resolveEnvRef(cfg.LLM.APIKey)
	cfg.Remote.Username = resolveEnvRef(cfg.Remote.Username)
	cfg.Remote.Password = resolveEnvRef(cfg.Remote.Password)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot be acted on. Missing remote
// credentials are not checked here: they fail the individual execution.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Interpreter.Backend) {
	case "auto", "local", "openai":
	default:
		return fmt.Errorf("interpreter.backend: unknown backend %q", c.Interpreter.Backend)
	}
	if strings.EqualFold(c.Interpreter.Backend, "openai") && c.LLM.APIKey == "" {
		return errors.New("interpreter.backend is openai but llm.api_key is empty")
	}
	switch strings.ToLower(c.Remote.Transport) {
	case "basic", "plaintext", "ssl", "ntlm":
	default:
		return fmt.Errorf("remote.transport: unsupported transport %q", c.Remote.Transport)
	}
	switch strings.ToLower(c.Remote.CertValidation) {
	case CertValidate, CertIgnore:
	default:
		return fmt.Errorf("remote.cert_validation: must be %q or %q, got %q", CertValidate, CertIgnore, c.Remote.CertValidation)
	}
	if c.Remote.Port <= 0 || c.Remote.Port > 65535 {
		return fmt.Errorf("remote.port: out of range: %d", c.Remote.Port)
	}
	if c.Transcription.Field == "" {
		return errors.New("transcription.field must not be empty")
	}
	if c.Registry.Path == "" {
		return errors.New("registry.path must not be empty")
	}
	return nil
}

// UseModel reports whether the language-model strategy should be used.
// With backend "auto" the presence of an API key decides.
func (c *Config) UseModel() bool {
	switch strings.ToLower(c.Interpreter.Backend) {
	case "openai":
		return true
	case "local":
		return false
	default:
		return c.LLM.APIKey != ""
	}
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
