package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"testforge/internal/analytics"
	"testforge/internal/cache"
	"testforge/internal/config"
	"testforge/internal/export"
	"testforge/internal/llm"
	"testforge/internal/logging"
	"testforge/internal/model"
	"testforge/internal/pipeline"
	"testforge/internal/workflow"
)

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger and config, built in PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "testforge",
	Short: "testforge - manual test-case synthesis from requirement text",
	Long: `testforge turns semi-structured requirements (user story, acceptance
criteria, business rules) into manual test cases.

The primary path prompts a chat-completion model and extracts a JSON array
of cases from its reply. When the model is unreachable or replies with
garbage, a deterministic rule-based generator takes over, so a run always
produces test cases.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	flagKey     string
	flagStory   string
	flagRules   string
	flagCrit    string
	flagUser    string
	flagRefresh bool
	flagFormat  string
	flagOut     string
	flagLimit   int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test cases for one story",
	RunE: func(cmd *cobra.Command, args []string) error {
		story, err := resolveArg(flagStory)
		if err != nil {
			return err
		}
		criteria, err := resolveArg(flagCrit)
		if err != nil {
			return err
		}
		rules, err := resolveArg(flagRules)
		if err != nil {
			return err
		}
		if strings.TrimSpace(story) == "" && strings.TrimSpace(criteria) == "" && strings.TrimSpace(rules) == "" {
			return fmt.Errorf("provide at least one of --story, --criteria, --rules")
		}

		p, _, _, err := buildPipeline()
		if err != nil {
			return err
		}

		res, err := p.Generate(cmd.Context(), model.GenerationRequest{
			StoryKey:           flagKey,
			UserStory:          story,
			AcceptanceCriteria: criteria,
			BusinessRules:      rules,
			UserTag:            flagUser,
			ForceRefresh:       flagRefresh,
		})
		if err != nil {
			return err
		}
		return writeResult(res)
	},
}

// batchEntry is one story in a batch requests file.
type batchEntry struct {
	Key      string `yaml:"key"`
	Story    string `yaml:"story"`
	Criteria string `yaml:"criteria"`
	Rules    string `yaml:"rules"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <requests.yaml>",
	Short: "Generate test cases for a list of stories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading requests file: %w", err)
		}
		var entries []batchEntry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parsing requests file: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("requests file %s contains no entries", args[0])
		}

		reqs := make([]model.GenerationRequest, len(entries))
		for i, e := range entries {
			reqs[i] = model.GenerationRequest{
				StoryKey:           e.Key,
				UserStory:          e.Story,
				AcceptanceCriteria: e.Criteria,
				BusinessRules:      e.Rules,
				UserTag:            flagUser,
			}
		}

		p, store, recorder, err := buildPipeline()
		if err != nil {
			return err
		}
		if cfg.Workflow.Watch {
			// pick up workflow content edits during long batch runs
			go func() { _ = store.Watch(cmd.Context()) }()
		}

		results, err := p.GenerateBatch(cmd.Context(), reqs, flagLimit)
		if err != nil {
			logger.Warn("some stories failed", zap.Error(err))
		}
		for _, res := range results {
			if err := writeResult(res); err != nil {
				return err
			}
		}

		m := recorder.Snapshot()
		logger.Info("batch complete",
			zap.Int("stories", m.TotalGenerations),
			zap.Int("cases", m.TotalCases))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("testforge", version)
	},
}

// buildPipeline wires the pipeline from config. Without an API key the AI
// path is disabled and generation runs deterministically.
func buildPipeline() (*pipeline.Pipeline, *workflow.Store, *analytics.Recorder, error) {
	var client llm.Client
	if cfg.LLM.APIKey != "" {
		c, err := llm.NewOpenAIClient(cfg.LLM, cfg.LLMTimeout(), logger.Named("llm"))
		if err != nil {
			return nil, nil, nil, err
		}
		client = c
	} else {
		logger.Warn("no API key configured, running with the deterministic generator only")
	}

	store, err := workflow.NewStore(cfg.Workflow.ContentDir, logger.Named("workflow"))
	if err != nil {
		return nil, nil, nil, err
	}

	recorder := analytics.NewRecorder(cfg.Analytics.RecentActivitySize)
	p := pipeline.New(client, store, cache.New(), recorder, logger.Named("pipeline"))
	return p, store, recorder, nil
}

// resolveArg returns the flag value, or the file contents when it starts
// with '@'.
func resolveArg(v string) (string, error) {
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	data, err := os.ReadFile(v[1:])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", v[1:], err)
	}
	return string(data), nil
}

func writeResult(res model.GenerationResult) error {
	var out string
	switch strings.ToLower(flagFormat) {
	case "csv":
		out = export.RenderCSV(res.Cases)
	case "json", "":
		data, err := json.MarshalIndent(res.Cases, "", "  ")
		if err != nil {
			return err
		}
		out = string(data) + "\n"
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", flagFormat)
	}

	if flagOut != "" {
		return os.WriteFile(flagOut, []byte(out), 0o644)
	}
	_, err := fmt.Print(out)
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "testforge.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	for _, cmd := range []*cobra.Command{generateCmd, batchCmd} {
		cmd.Flags().StringVar(&flagUser, "user", "", "user tag for usage tracking")
		cmd.Flags().StringVar(&flagFormat, "format", "json", "output format: json or csv")
	}
	generateCmd.Flags().StringVar(&flagOut, "out", "", "write output to a file instead of stdout")

	generateCmd.Flags().StringVar(&flagKey, "key", "", "story key, e.g. PROJ-123")
	generateCmd.Flags().StringVar(&flagStory, "story", "", "user story text, or @file")
	generateCmd.Flags().StringVar(&flagCrit, "criteria", "", "acceptance criteria text, or @file")
	generateCmd.Flags().StringVar(&flagRules, "rules", "", "business rules text, or @file")
	generateCmd.Flags().BoolVar(&flagRefresh, "force-refresh", false, "evict the cached result and regenerate")

	batchCmd.Flags().IntVar(&flagLimit, "limit", 4, "max concurrent stories")

	rootCmd.AddCommand(generateCmd, batchCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
