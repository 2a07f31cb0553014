// Package main is the Senko CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/config"
	"github.com/hyperjump/senko/internal/embedding"
	"github.com/hyperjump/senko/internal/extract"
	"github.com/hyperjump/senko/internal/gemini"
	"github.com/hyperjump/senko/internal/intake"
	"github.com/hyperjump/senko/internal/judge"
	"github.com/hyperjump/senko/internal/keyword"
	"github.com/hyperjump/senko/internal/matcher"
	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/internal/parser"
	"github.com/hyperjump/senko/internal/ranking"
	"github.com/hyperjump/senko/internal/records"
	"github.com/hyperjump/senko/internal/scorer"
	"github.com/hyperjump/senko/internal/server"
	"github.com/hyperjump/senko/internal/similarity"
	"github.com/hyperjump/senko/internal/watcher"
	"github.com/hyperjump/senko/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/senko/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "senko server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// API keys are commonly kept in a local .env during development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "score":
		runScore()
	case "delete":
		runDelete()
	case "candidates":
		runCandidates()
	case "matches":
		runMatches()
	case "shortlist":
		runShortlist()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("senko version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (scoring breakdowns, intake activity, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	importer := components.Importer
	watchSvc := watcherForIntake(cfg, importer, logger)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if watchSvc != nil {
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start intake watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(components.Matcher, components.Records, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: senko ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		count := 0
		walkErr := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if importErr := components.Importer.ImportFile(ctx, p); importErr != nil {
				logger.Warn("import failed", zap.String("path", p), zap.Error(importErr))
				return nil
			}
			count++
			return nil
		})
		if walkErr != nil {
			fmt.Printf("Ingesting directory failed: %v\n", walkErr)
			os.Exit(1)
		}
		fmt.Printf("Ingested %d file(s) from %s\n", count, path)
		return
	}
	if err := components.Importer.ImportFile(ctx, path); err != nil {
		fmt.Printf("Ingesting failed: %v\n", err)
		os.Exit(1)
	}
	absPath, _ := filepath.Abs(path)
	fmt.Printf("Ingested: %s\n", absPath)
}

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 2 {
		fmt.Println("Usage: senko score [flags] <profile-id> <posting-id>")
		os.Exit(1)
	}
	profileID, postingID := fs.Arg(0), fs.Arg(1)

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	result, err := components.Matcher.ScorePair(context.Background(), profileID, postingID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scoring failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("score:       %.1f\n", result.Record.Score)
	fmt.Printf("semantic:    %.4f\n", result.Semantic)
	if result.Breakdown != nil && !result.Degraded {
		fmt.Printf("judge:       %.1f (skills %.0f, experience %.0f, education %.0f, additional %.0f)\n",
			result.Breakdown.Overall, result.Breakdown.Skills, result.Breakdown.Experience,
			result.Breakdown.Education, result.Breakdown.Additional)
	}
	if result.Degraded {
		fmt.Println("judge:       unavailable (semantic-only score)")
	}
	fmt.Printf("shortlisted: %t\n", result.Record.Shortlisted)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: senko delete [flags] <posting-id>")
		os.Exit(1)
	}
	postingID := fs.Arg(0)

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	if err := components.Matcher.RemovePosting(context.Background(), postingID); err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Posting deleted: %s\n", postingID)
}

func runCandidates() {
	fs := flag.NewFlagSet("candidates", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	minScore := fs.Float64("min-score", 0, "minimum match score")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: senko candidates [flags] <posting-id>")
		os.Exit(1)
	}
	postingID := fs.Arg(0)

	var matches []*models.CandidateMatch
	if *serverURL != "" {
		path := fmt.Sprintf("/api/v1/postings/%s/candidates?min_score=%g", postingID, *minScore)
		if err := getJSON(*serverURL+path, &matches); err != nil {
			fmt.Fprintf(os.Stderr, "Candidates failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, logger := mustInitialize(*configPath)
		defer components.Close()
		defer logger.Sync()
		var err error
		matches, err = components.Matcher.CandidatesForPosting(context.Background(), postingID, *minScore)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Candidates failed: %v\n", err)
			os.Exit(1)
		}
	}
	writeCandidates(matches, *outputFormat)
}

func runMatches() {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: senko matches [flags] <profile-id>")
		os.Exit(1)
	}
	profileID := fs.Arg(0)

	var matches []*models.JobMatch
	if *serverURL != "" {
		if err := getJSON(*serverURL+"/api/v1/profiles/"+profileID+"/matches", &matches); err != nil {
			fmt.Fprintf(os.Stderr, "Matches failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, logger := mustInitialize(*configPath)
		defer components.Close()
		defer logger.Sync()
		var err error
		matches, err = components.Matcher.MatchesForProfile(context.Background(), profileID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Matches failed: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputFormat == "json" {
		writeJSON(matches)
		return
	}
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, m := range matches {
		flag := " "
		if m.Shortlisted {
			flag = "*"
		}
		title := m.Title
		if m.Company != "" {
			title += " @ " + m.Company
		}
		fmt.Printf("%s %5.1f  %-36s  %s\n", flag, m.Score, m.PostingID, title)
	}
}

func runShortlist() {
	fs := flag.NewFlagSet("shortlist", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: senko shortlist [flags] <posting-id>")
		os.Exit(1)
	}
	postingID := fs.Arg(0)

	var matches []*models.CandidateMatch
	if *serverURL != "" {
		if err := getJSON(*serverURL+"/api/v1/postings/"+postingID+"/shortlist", &matches); err != nil {
			fmt.Fprintf(os.Stderr, "Shortlist failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, logger := mustInitialize(*configPath)
		defer components.Close()
		defer logger.Sync()
		var err error
		matches, err = components.Matcher.Shortlist(context.Background(), postingID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Shortlist failed: %v\n", err)
			os.Exit(1)
		}
	}
	writeCandidates(matches, *outputFormat)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: senko search [flags] <query>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: senko search [flags] <query>")
		os.Exit(1)
	}

	var postings []*models.Posting
	if *serverURL != "" {
		body := map[string]interface{}{"query": query, "limit": *limit}
		if err := postJSON(*serverURL+"/api/v1/postings/search", body, &postings); err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, logger := mustInitialize(*configPath)
		defer components.Close()
		defer logger.Sync()
		var err error
		postings, err = components.Matcher.SearchPostings(context.Background(), query, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputFormat == "json" {
		writeJSON(postings)
		return
	}
	if len(postings) == 0 {
		fmt.Println("No postings found.")
		return
	}
	for _, p := range postings {
		line := p.Title
		if p.Company != "" {
			line += " @ " + p.Company
		}
		fmt.Printf("%-36s  %s\n", p.ID, line)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status matcher.Status
	if *serverURL != "" {
		if err := getJSON(*serverURL+"/api/v1/status", &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, logger := mustInitialize(*configPath)
		defer components.Close()
		defer logger.Sync()
		res, err := components.Matcher.Status(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	}

	switch *outputFormat {
	case "json":
		writeJSON(status)
	case "text":
		fmt.Printf("postings:          %d\n", status.Postings)
		fmt.Printf("profiles:          %d\n", status.Profiles)
		fmt.Printf("posting_vectors:   %d\n", status.PostingVectors)
		fmt.Printf("profile_vectors:   %d\n", status.ProfileVectors)
		fmt.Printf("indexed_keywords:  %d\n", status.IndexedKeywords)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func writeCandidates(matches []*models.CandidateMatch, format string) {
	if format == "json" {
		writeJSON(matches)
		return
	}
	if len(matches) == 0 {
		fmt.Println("No candidates.")
		return
	}
	for _, m := range matches {
		flag := " "
		if m.Shortlisted {
			flag = "*"
		}
		name := m.Name
		if name == "" {
			name = m.ProfileID
		}
		fmt.Printf("%s %3d. %5.1f  %s\n", flag, m.Rank, m.Score, name)
	}
}

func writeJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func getJSON(url string, out interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func postJSON(url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mustInitialize loads config, builds a logger, and initializes all components.
// Exits the process on failure.
func mustInitialize(configPath string) (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	return components, logger
}

// Components holds initialized services.
type Components struct {
	Records        records.Store
	Rankings       ranking.Store
	Embedder       embedding.Embedder
	PostingEngine  *similarity.Engine
	ProfileEngine  *similarity.Engine
	KeywordIndex   keyword.Index
	Matcher        *matcher.Matcher
	Importer       *intake.Importer
}

func (c *Components) Close() {
	if c.Records != nil {
		_ = c.Records.Close()
	}
	if c.Rankings != nil {
		_ = c.Rankings.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.PostingEngine != nil {
		_ = c.PostingEngine.Close()
	}
	if c.ProfileEngine != nil {
		_ = c.ProfileEngine.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// unavailableGenerator stands in when GEMINI_API_KEY is not set. Judge calls
// degrade scoring to semantic-only; structured extraction from raw text fails.
type unavailableGenerator struct{}

func (unavailableGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("GEMINI_API_KEY is not set")
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	recordStore, err := records.NewSQLiteStore(cfg.Storage.RecordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	rankings, err := ranking.NewSQLiteStore(cfg.Storage.RankingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ranking store: %w", err)
	}

	embedder, err := embedding.New(embedding.Options{
		Provider:   cfg.Embedding.Provider,
		Dimensions: cfg.Embedding.Dimensions,
		CacheSize:  cfg.Embedding.CacheSize,
		APIKey:     os.Getenv("VOYAGE_API_KEY"),
		Model:      cfg.Embedding.Model,
		Timeout:    cfg.Embedding.Timeout(),
		ModelPath:  cfg.Embedding.ModelPath,
		MaxTokens:  cfg.Embedding.MaxTokens,
	})
	if err != nil {
		logger.Warn("embedding provider unavailable, falling back to mock",
			zap.String("provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	postingEngine, err := similarity.NewEngine("postings",
		filepath.Join(cfg.Storage.VectorDir, "postings.vec"),
		filepath.Join(cfg.Storage.VectorDir, "postings.cat"),
		embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize posting engine: %w", err)
	}

	profileEngine, err := similarity.NewEngine("profiles",
		filepath.Join(cfg.Storage.VectorDir, "profiles.vec"),
		filepath.Join(cfg.Storage.VectorDir, "profiles.cat"),
		embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profile engine: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	var generator interface {
		GenerateContent(ctx context.Context, prompt string) (string, error)
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set, judge and structured extraction are unavailable")
		generator = unavailableGenerator{}
	} else {
		g, genErr := gemini.NewGenerator(context.Background(), apiKey, cfg.Judge.Model, cfg.Judge.Timeout())
		if genErr != nil {
			return nil, fmt.Errorf("failed to initialize content generator: %w", genErr)
		}
		generator = g
	}

	j := judge.NewGeminiJudge(generator, logger)
	s := scorer.NewScorer(postingEngine, j, rankings, cfg.Matching.ShortlistThreshold, logger)
	p := parser.NewParser(generator, logger)

	m := matcher.New(recordStore, postingEngine, profileEngine, keywordIndex,
		p, extract.NewExtractor(), s, rankings, matcher.Options{
			CandidatePool: cfg.Matching.CandidatePool,
			JobPool:       cfg.Matching.JobPool,
			Concurrency:   cfg.Matching.Concurrency,
		}, logger)

	importer := intake.NewImporter(m, logger)

	return &Components{
		Records:       recordStore,
		Rankings:      rankings,
		Embedder:      embedder,
		PostingEngine: postingEngine,
		ProfileEngine: profileEngine,
		KeywordIndex:  keywordIndex,
		Matcher:       m,
		Importer:      importer,
	}, nil
}

// watcherForIntake builds a watcher over the configured intake directories.
// Returns nil when no directories are configured.
func watcherForIntake(cfg *config.Config, importer *intake.Importer, logger *zap.Logger) *watcher.Watcher {
	if len(cfg.Intake.Directories) == 0 {
		return nil
	}
	return watcher.NewWatcher(
		cfg.Intake.Directories,
		cfg.Intake.Extensions,
		func(path string) {
			if err := importer.ImportFile(context.Background(), path); err != nil {
				logger.Warn("intake import failed", zap.String("path", path), zap.Error(err))
			}
		},
		logger,
	)
}

func printUsage() {
	fmt.Println(`senko - Job posting and candidate profile matching engine

Usage:
  senko server [flags]                      Start the HTTP server
  senko ingest [flags] <file-or-dir>        Ingest resumes (.pdf/.docx/...) or posting sheets (.xlsx)
  senko score [flags] <profile> <posting>   Score one profile against one posting
  senko delete [flags] <posting-id>         Delete a posting and its rankings
  senko candidates [flags] <posting-id>     Ranked candidates for a posting
  senko shortlist [flags] <posting-id>      Shortlisted candidates for a posting
  senko matches [flags] <profile-id>        Ranked posting matches for a profile
  senko search [flags] <query>              Keyword search over postings
  senko status [flags]                      Show collection and index sizes
  senko version                             Show version
  senko help                                Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/senko/config.yaml)
  --debug            Enable debug logging (scoring breakdowns, intake activity, etc.)

Query Flags (candidates, shortlist, matches, search, status):
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "")
                     to use direct storage when the server is not running.
  --output string    Output format: text or json (default: text)

Environment:
  VOYAGE_API_KEY     VoyageAI key for embeddings (mock embedder is used without it)
  GEMINI_API_KEY     Gemini key for the judge and structured extraction

Examples:
  senko server
  senko ingest ./resumes/
  senko ingest job_descriptions.xlsx
  senko score cand-42 post-7
  senko candidates post-7 --min-score 60
  senko shortlist post-7
  senko search golang kubernetes
  senko status --output json`)
}
