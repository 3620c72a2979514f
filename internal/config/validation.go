package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Tools validation - HTTP
	if c.Tools.HTTPTimeoutSeconds < 1 {
		errs = append(errs, "tools.http_timeout_seconds must be >= 1")
	}
	if c.Tools.ArxivBaseURL == "" {
		errs = append(errs, "tools.arxiv_base_url must not be empty")
	}
	if c.Tools.GitHubBaseURL == "" {
		errs = append(errs, "tools.github_base_url must not be empty")
	}

	// Tools validation - Limits
	if c.Tools.DefaultArxivMaxResults < 1 {
		errs = append(errs, "tools.default_arxiv_max_results must be >= 1")
	}
	if c.Tools.MaxArxivMaxResults < 1 {
		errs = append(errs, "tools.max_arxiv_max_results must be >= 1")
	}
	if c.Tools.GitHubMinRemaining < 0 {
		errs = append(errs, "tools.github_min_remaining must be >= 0")
	}
	if c.Tools.GitHubMaxResults < 1 {
		errs = append(errs, "tools.github_max_results must be >= 1")
	}
	if c.Tools.WebMaxBodyBytes < 1 {
		errs = append(errs, "tools.web_max_body_bytes must be >= 1")
	}
	if c.Tools.WebMinWords < 0 {
		errs = append(errs, "tools.web_min_words must be >= 0")
	}
	if c.Tools.WebHistoryContentSize < 1 {
		errs = append(errs, "tools.web_history_content_size must be >= 1")
	}
	if c.Tools.WebCacheSize < 1 {
		errs = append(errs, "tools.web_cache_size must be >= 1")
	}
	if c.Tools.MaxSearchContentResults < 1 {
		errs = append(errs, "tools.max_search_content_results must be >= 1")
	}
	if c.Tools.MaxLineLength < 1 {
		errs = append(errs, "tools.max_line_length must be >= 1")
	}
	if c.Tools.MaxIngestFileSize < 1 {
		errs = append(errs, "tools.max_ingest_file_size must be >= 1")
	}
	if c.Tools.DefaultMaxCommandOutputSize < 1 {
		errs = append(errs, "tools.default_max_command_output_size must be >= 1")
	}
	if c.Tools.DefaultCommandTimeout < 1 {
		errs = append(errs, "tools.default_command_timeout must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 1 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 1")
	}
	if c.Tools.DefaultKnowledgeResults < 1 {
		errs = append(errs, "tools.default_knowledge_results must be >= 1")
	}
	if c.Tools.MaxKnowledgeResults < 1 {
		errs = append(errs, "tools.max_knowledge_results must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultArxivMaxResults > c.Tools.MaxArxivMaxResults {
		errs = append(errs, "tools.default_arxiv_max_results must be <= tools.max_arxiv_max_results")
	}
	if c.Tools.DefaultKnowledgeResults > c.Tools.MaxKnowledgeResults {
		errs = append(errs, "tools.default_knowledge_results must be <= tools.max_knowledge_results")
	}

	// Storage validation
	if c.Storage.HistoryPath == "" {
		errs = append(errs, "storage.history_path must not be empty")
	}

	// Logging validation
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level %q is not a valid level", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
