package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where askdesk stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Secret signs issued access tokens
	Secret string

	// AI configuration
	AILLMProvider    string // ASKDESK_AI_LLM_PROVIDER (default: openai)
	AILLMModel       string // ASKDESK_AI_LLM_MODEL (default: gpt-4o-mini)
	AIOpenAIAPIKey   string // ASKDESK_AI_OPENAI_API_KEY
	AIOpenAIBaseURL  string // ASKDESK_AI_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	AIDeepSeekAPIKey string // ASKDESK_AI_DEEPSEEK_API_KEY
	AIDeepSeekBaseURL string // ASKDESK_AI_DEEPSEEK_BASE_URL (default: https://api.deepseek.com)
	AIOllamaBaseURL  string // ASKDESK_AI_OLLAMA_BASE_URL (default: http://localhost:11434)
	AIEmbeddingModel string // ASKDESK_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIRerankEnabled  bool   // ASKDESK_AI_RERANK_ENABLED (default: false)
	AIRerankModel    string // ASKDESK_AI_RERANK_MODEL
	AIRerankBaseURL  string // ASKDESK_AI_RERANK_BASE_URL
	AIRerankAPIKey   string // ASKDESK_AI_RERANK_API_KEY
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if at least one LLM backend is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIOpenAIAPIKey != "" || p.AIDeepSeekAPIKey != "" || p.AIOllamaBaseURL != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads AI configuration from ASKDESK_* environment variables.
func (p *Profile) FromEnv() {
	p.AILLMProvider = getEnvOrDefault("ASKDESK_AI_LLM_PROVIDER", "openai")
	p.AILLMModel = getEnvOrDefault("ASKDESK_AI_LLM_MODEL", "gpt-4o-mini")
	p.AIOpenAIAPIKey = os.Getenv("ASKDESK_AI_OPENAI_API_KEY")
	p.AIOpenAIBaseURL = getEnvOrDefault("ASKDESK_AI_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.AIDeepSeekAPIKey = os.Getenv("ASKDESK_AI_DEEPSEEK_API_KEY")
	p.AIDeepSeekBaseURL = getEnvOrDefault("ASKDESK_AI_DEEPSEEK_BASE_URL", "https://api.deepseek.com")
	p.AIOllamaBaseURL = getEnvOrDefault("ASKDESK_AI_OLLAMA_BASE_URL", "")
	p.AIEmbeddingModel = getEnvOrDefault("ASKDESK_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AIRerankEnabled = os.Getenv("ASKDESK_AI_RERANK_ENABLED") == "true"
	p.AIRerankModel = getEnvOrDefault("ASKDESK_AI_RERANK_MODEL", "BAAI/bge-reranker-v2-m3")
	p.AIRerankBaseURL = os.Getenv("ASKDESK_AI_RERANK_BASE_URL")
	p.AIRerankAPIKey = os.Getenv("ASKDESK_AI_RERANK_API_KEY")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/askdesk"
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				return errors.Wrapf(err, "failed to create data directory %s", p.Data)
			}
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("askdesk_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	return nil
}
