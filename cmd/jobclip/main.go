package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"job-clipper-go/internal/background"
	"job-clipper-go/internal/bus"
	"job-clipper-go/internal/config"
	"job-clipper-go/internal/content"
	"job-clipper-go/internal/dom"
	"job-clipper-go/internal/extractor"
	"job-clipper-go/internal/notion"
	"job-clipper-go/internal/orchestrator"
	"job-clipper-go/internal/storage"
	"job-clipper-go/internal/ui"
	"job-clipper-go/pkg/httpclient"
)

func main() {
	var (
		configFile = flag.String("config", "config.json", "Configuration file path")
		command    = flag.String("cmd", "scrape", "Command to run: scrape, save, check, config")
		pageURL    = flag.String("url", "", "Job posting URL to fetch")
		pageFile   = flag.String("file", "", "Local HTML file to read instead of fetching (combine with -url for the original address)")
		store      = flag.String("store", "", "Storage backend override: notion, supabase")
		output     = flag.String("output", "console", "Output format: console, json")
		verbose    = flag.Bool("verbose", false, "Verbose output")
		yes        = flag.Bool("yes", false, "Save without asking for confirmation")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	// Load environment variables (credentials live here).
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Logging.Verbose = true
	}
	if *store != "" {
		cfg.Storage.Backend = *store
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch *command {
	case "scrape":
		runClip(cfg, logger, *pageURL, *pageFile, *output, false, *yes)
	case "save":
		runClip(cfg, logger, *pageURL, *pageFile, *output, true, *yes)
	case "check":
		runCheck(cfg, logger, *pageURL, *pageFile)
	case "config":
		runConfig(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", *command)
		printUsage()
		os.Exit(1)
	}
}

// runClip scrapes the page and, when save is requested, confirms and
// persists the result.
func runClip(cfg *config.Config, logger *zap.Logger, pageURL, pageFile, output string, save, yes bool) {
	ctx := context.Background()

	doc, err := loadDocument(ctx, cfg, pageURL, pageFile)
	if err != nil {
		logger.Fatal("failed to load document", zap.Error(err))
	}

	st, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	b := bus.New(logger)
	content.NewHandler(extractor.NewRegistry(), doc, logger).Register(ctx, b)
	background.NewHandler(st, logger).Register(ctx, b)

	orch := orchestrator.New(b, logger)
	orch.Subscribe(ui.NewRenderer(os.Stdout).Handle)

	if err := orch.RequestScrape(ctx); err != nil {
		os.Exit(1)
	}

	if output == "json" {
		if rec, ok := orch.Pending(); ok {
			data, _ := json.MarshalIndent(rec, "", "  ")
			fmt.Println(string(data))
		}
	}

	if !save {
		return
	}
	if !yes && !confirm() {
		fmt.Println("Not saved.")
		return
	}
	if err := orch.RequestSave(ctx); err != nil {
		os.Exit(1)
	}

	m := orch.Metrics()
	logger.Info("session finished",
		zap.Int("scrapes", m.Scrapes),
		zap.Int("saves", m.Saves),
		zap.Int("failures", m.Failures))
}

// runCheck classifies the page without extracting anything.
func runCheck(cfg *config.Config, logger *zap.Logger, pageURL, pageFile string) {
	ctx := context.Background()

	doc, err := loadDocument(ctx, cfg, pageURL, pageFile)
	if err != nil {
		logger.Fatal("failed to load document", zap.Error(err))
	}

	platform, ok := extractor.NewRegistry().Classify(doc)
	if !ok {
		fmt.Println("Not a supported job page.")
		os.Exit(1)
	}
	fmt.Printf("Supported job page (%s).\n", platform.Name)
}

// runConfig prints the effective configuration with secrets masked.
func runConfig(cfg *config.Config) {
	fmt.Printf("Storage backend:  %s\n", cfg.Storage.Backend)
	fmt.Printf("Request timeout:  %s\n", cfg.Request.Timeout)
	fmt.Printf("Log level:        %s\n", cfg.Logging.Level)

	props := cfg.PropertyMap()
	fmt.Println("Notion properties:")
	fmt.Printf("  company:         %s\n", props.Company)
	fmt.Printf("  position:        %s\n", props.Position)
	fmt.Printf("  status:          %s\n", props.Status)
	fmt.Printf("  applicationDate: %s\n", props.ApplicationDate)
	fmt.Printf("  location:        %s\n", props.Location)

	if _, err := cfg.NotionCredentials(); err != nil {
		fmt.Printf("Credentials:      %v\n", err)
	} else {
		fmt.Println("Credentials:      configured")
	}
}

// loadDocument reads the posting from -file, or fetches -url, standing in
// for the browser that would normally deliver the page.
func loadDocument(ctx context.Context, cfg *config.Config, pageURL, pageFile string) (*dom.Document, error) {
	if pageFile != "" {
		data, err := os.ReadFile(pageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", pageFile, err)
		}
		if pageURL == "" {
			pageURL = "file://" + pageFile
		}
		return dom.ParseString(string(data), pageURL)
	}

	if pageURL == "" {
		return nil, fmt.Errorf("one of -url or -file is required")
	}

	client := httpclient.NewHttpClient(cfg.Request.Timeout)
	resp, err := client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", pageURL, resp.StatusCode)
	}
	return dom.Parse(resp.Body, pageURL)
}

func buildStore(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "supabase":
		return storage.NewSupabaseStore("", "")
	default:
		client := notion.NewClient(
			httpclient.NewHttpClient(cfg.Request.Timeout),
			cfg,
			cfg.PropertyMap(),
			logger,
		)
		return storage.NewNotionStore(client), nil
	}
}

func confirm() bool {
	fmt.Print("Save this job? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := cfg.Logging.Level
	if cfg.Logging.Verbose {
		level = "debug"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)

	return zapCfg.Build()
}

func printUsage() {
	fmt.Println("jobclip - clip job postings into your application tracker")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  jobclip -cmd scrape -url <posting-url>        Scrape and show the posting")
	fmt.Println("  jobclip -cmd save -url <posting-url>          Scrape, confirm and persist")
	fmt.Println("  jobclip -cmd check -url <posting-url>         Classify the page only")
	fmt.Println("  jobclip -cmd config                           Show effective settings")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Credentials are read from NOTION_API_KEY and NOTION_DATABASE_ID")
	fmt.Println("(or SUPABASE_URL / SUPABASE_KEY with -store supabase), loaded from")
	fmt.Println("the environment or a local .env file.")
}
