package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.RecordsPath == "" {
		cfg.Storage.RecordsPath = "/usr/local/var/senko/data/db/records.db"
	}
	if cfg.Storage.RankingsPath == "" {
		cfg.Storage.RankingsPath = "/usr/local/var/senko/data/db/rankings.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/senko/data/indices/bleve"
	}
	if cfg.Storage.VectorDir == "" {
		cfg.Storage.VectorDir = "/usr/local/var/senko/data/indices/vectors"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "voyage"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 30
	}
	if cfg.Judge.TimeoutSeconds == 0 {
		cfg.Judge.TimeoutSeconds = 60
	}
	if cfg.Matching.ShortlistThreshold == 0 {
		cfg.Matching.ShortlistThreshold = 80.0
	}
	if cfg.Matching.CandidatePool == 0 {
		cfg.Matching.CandidatePool = 20
	}
	if cfg.Matching.JobPool == 0 {
		cfg.Matching.JobPool = 10
	}
	if cfg.Matching.Concurrency == 0 {
		cfg.Matching.Concurrency = 4
	}
	if cfg.Intake.Extensions == nil {
		cfg.Intake.Extensions = []string{".pdf", ".docx", ".odt", ".rtf", ".txt", ".md", ".xlsx"}
	}
}
