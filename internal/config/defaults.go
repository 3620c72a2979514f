package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Tools   ToolsConfig   `json:"tools"`
	Storage StorageConfig `json:"storage"`
	Logging LoggingConfig `json:"logging"`
}

type ToolsConfig struct {
	// Shared HTTP client
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"` // Default: 30
	UserAgent          string `json:"user_agent"`           // Default: "wisemcp/1.0"

	// arXiv
	ArxivBaseURL           string `json:"arxiv_base_url"`            // Default: "https://export.arxiv.org/api/query"
	DefaultArxivMaxResults int    `json:"default_arxiv_max_results"` // Default: 5
	MaxArxivMaxResults     int    `json:"max_arxiv_max_results"`     // Default: 100

	// GitHub
	GitHubBaseURL      string `json:"github_base_url"`      // Default: "https://api.github.com"
	GitHubMinRemaining int    `json:"github_min_remaining"` // Default: 10
	GitHubMaxResults   int    `json:"github_max_results"`   // Default: 10

	// Web extraction
	WebMaxBodyBytes       int64 `json:"web_max_body_bytes"`       // Default: 5 * 1024 * 1024 (5MB)
	WebMinWords           int   `json:"web_min_words"`            // Default: 50
	WebHistoryContentSize int   `json:"web_history_content_size"` // Default: 4000
	WebCacheSize          int   `json:"web_cache_size"`           // Default: 128

	// Local codebase search
	LocalCodebasePath       string `json:"local_codebase_path"`        // Default: "."
	MaxSearchContentResults int    `json:"max_search_content_results"` // Default: 10000
	MaxLineLength           int    `json:"max_line_length"`            // Default: 10000
	MaxIngestFileSize       int64  `json:"max_ingest_file_size"`       // Default: 1024 * 1024 (1MB)

	// Command Execution
	DefaultMaxCommandOutputSize int64 `json:"default_max_command_output_size"` // Default: 10 * 1024 * 1024 (10MB)
	DefaultCommandTimeout       int   `json:"default_command_timeout"`         // Default: 60 (seconds)
	GracefulShutdownMs          int   `json:"graceful_shutdown_ms"`            // Default: 2000

	// Knowledge base search
	DefaultKnowledgeResults int `json:"default_knowledge_results"` // Default: 5
	MaxKnowledgeResults     int `json:"max_knowledge_results"`     // Default: 100
}

type StorageConfig struct {
	// Relative paths are resolved against ~/.config/wisemcp.
	HistoryPath   string `json:"history_path"`   // Default: "history.db"
	KnowledgePath string `json:"knowledge_path"` // Default: "knowledge.bleve"
}

type LoggingConfig struct {
	Level       string `json:"level"`       // Default: "info"
	Development bool   `json:"development"` // Default: false
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			HTTPTimeoutSeconds:          30,
			UserAgent:                   "wisemcp/1.0",
			ArxivBaseURL:                "https://export.arxiv.org/api/query",
			DefaultArxivMaxResults:      5,
			MaxArxivMaxResults:          100,
			GitHubBaseURL:               "https://api.github.com",
			GitHubMinRemaining:          10,
			GitHubMaxResults:            10,
			WebMaxBodyBytes:             5 * 1024 * 1024,
			WebMinWords:                 50,
			WebHistoryContentSize:       4000,
			WebCacheSize:                128,
			LocalCodebasePath:           ".",
			MaxSearchContentResults:     10000,
			MaxLineLength:               10000,
			MaxIngestFileSize:           1024 * 1024,
			DefaultMaxCommandOutputSize: 10 * 1024 * 1024,
			DefaultCommandTimeout:       60,
			GracefulShutdownMs:          2000,
			DefaultKnowledgeResults:     5,
			MaxKnowledgeResults:         100,
		},
		Storage: StorageConfig{
			HistoryPath:   "history.db",
			KnowledgePath: "knowledge.bleve",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
