// Package main provides the CLI entrypoint for retype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/retype/internal/config"
	"github.com/verte-zerg/retype/internal/generator"
	"github.com/verte-zerg/retype/internal/logging"
	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/session"
	"github.com/verte-zerg/retype/internal/stats"
	"github.com/verte-zerg/retype/internal/store"
	"github.com/verte-zerg/retype/internal/textsource"
	"github.com/verte-zerg/retype/internal/tui"
	"github.com/verte-zerg/retype/internal/wordlist"
)

const (
	defaultPunctSet      = ".,;:!?"
	defaultHistoryLast   = 10
	defaultHistoryWindow = 5
	defaultSearchLimit   = 10
	defaultLogLevel      = "info"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string

	practiceDifficulty int
	practiceID         string
	practiceFile       string
	practiceWords      int
	practiceWordList   string
	practiceLang       string
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string

	historyText   string
	historySince  string
	historyWindow int

	searchLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "retype",
		Short:         "Terminal typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/retype/config.toml)")

	rootCmd.Flags().IntVarP(&practiceDifficulty, "difficulty", "d", 0, "text difficulty 1-5 (0 picks at random)")
	rootCmd.Flags().StringVar(&practiceID, "id", "", "corpus text ID")
	rootCmd.Flags().StringVarP(&practiceFile, "file", "f", "", "practice on the text in this file")
	rootCmd.Flags().IntVar(&practiceWords, "words", 0, "generate a text of this many random words")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list for generated texts (default: built-in)")
	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "word list language filter")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", 0, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", 0, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "id", &practiceID, fileCfg.Practice.TextID)
	applyStringConfig(cmd, "file", &practiceFile, fileCfg.Practice.File)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)

	cfg := model.Config{
		TextID:     practiceID,
		Difficulty: practiceDifficulty,
		File:       practiceFile,
		Words:      practiceWords,
		WordList:   practiceWordList,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("retype needs an interactive terminal")
	}

	logger, closeLog, err := openLogger(fileCfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmdContext(cmd)
	src, text, err := pickText(ctx, cfg, st, logger)
	if err != nil {
		return err
	}
	logger.Info("practice started", zap.String("text_id", text.ID()), zap.Int("tokens", len(text.Tokens())))

	m := tui.NewModel(tui.Options{Text: text, Source: src, Sink: st, Logger: logger})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return m.Err()
}

// pickText resolves the practice text: a file, a generated text when a word
// count or list is given, or a corpus text by ID or difficulty.
func pickText(ctx context.Context, cfg model.Config, st *store.Store, logger *zap.Logger) (textsource.Source, *session.Text, error) {
	switch {
	case cfg.File != "":
		src := textsource.File{}
		text, err := src.Get(ctx, cfg.File)
		if err != nil {
			return nil, nil, err
		}
		return src, text, nil
	case cfg.Words > 0 || cfg.WordList != "":
		words, err := wordlist.Load(cfg.WordList)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load word list: %w", err)
		}
		words = wordlist.Filter(words, wordlist.FilterForLang(practiceLang))
		if len(words) == 0 {
			return nil, nil, fmt.Errorf("no usable words in list: %w", wordlist.ErrEmpty)
		}
		src := textsource.NewGenerated(generator.New(), words, generator.Options{
			Words:    cfg.Words,
			CapsPct:  cfg.CapsPct,
			PunctPct: cfg.PunctPct,
			PunctSet: []rune(cfg.PunctSet),
		})
		text, err := src.Random(ctx, 0)
		if err != nil {
			return nil, nil, err
		}
		return src, text, nil
	default:
		corpus, err := textsource.NewCorpus(ctx, st, logger)
		if err != nil {
			return nil, nil, err
		}
		var text *session.Text
		if cfg.TextID != "" {
			text, err = corpus.Get(ctx, cfg.TextID)
		} else {
			text, err = corpus.Random(ctx, cfg.Difficulty)
		}
		if err != nil {
			return nil, nil, err
		}
		return corpus, text, nil
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [N]",
		Short: "Show the last N runs (0 shows all)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyText, "id", "", "only runs on this text ID")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "moving average window for the trend")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	last := defaultHistoryLast
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid record count %q", args[0])
		}
		last = n
	}
	var since *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	if historyWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	q := model.HistoryQuery{TextID: historyText, Since: since, Last: last}
	report, err := stats.BuildReport(cmdContext(cmd), st, q, historyWindow)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderHistory(out, report.Records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSummary(out, report.Records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Trend) < 2 {
		return nil
	}
	if stats.UseColor(out) {
		title := fmt.Sprintf("WPM (moving average of %d)", historyWindow)
		if err := stats.RenderChart(out, title, report.Trend, 0, 0, true); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(out, "Trend: %s\n", stats.Sparkline(report.Trend)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add blank-line separated texts to the corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	bodies, err := textsource.SplitTexts(f)
	if cerr := f.Close(); cerr != nil {
		// Best-effort close; the file was only read.
		_ = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if len(bodies) == 0 {
		return fmt.Errorf("no texts found in %s", args[0])
	}

	corpus, closeFn, err := openCorpus(cmdContext(cmd))
	if err != nil {
		return err
	}
	defer closeFn()

	ids, err := corpus.Import(cmdContext(cmd), bodies)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d texts (IDs %d-%d)\n", len(ids), ids[0], ids[len(ids)-1])
	return err
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Fuzzy search the corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearchCmd,
	}
	cmd.Flags().IntVarP(&searchLimit, "limit", "n", defaultSearchLimit, "maximum matches (0 shows all)")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	corpus, closeFn, err := openCorpus(cmdContext(cmd))
	if err != nil {
		return err
	}
	defer closeFn()

	matches, err := corpus.Search(cmdContext(cmd), strings.Join(args, " "), searchLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		_, err := fmt.Fprintln(out, "no matches")
		return err
	}
	for _, m := range matches {
		if _, err := fmt.Fprintf(out, "%4d  %s\n", m.ID, preview(m.Body, 60)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "retype %s\n", version)
			return err
		},
	}
}

func openCorpus(ctx context.Context) (*textsource.Corpus, func(), error) {
	fileCfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(fileCfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	corpus, err := textsource.NewCorpus(ctx, st, logging.Nop())
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return corpus, closeFn, nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() (config.FileConfig, error) {
	cfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openStore(fileCfg config.FileConfig) (*store.Store, error) {
	path := config.DefaultDBPath()
	if fileCfg.Storage.DB != nil && *fileCfg.Storage.DB != "" {
		path = *fileCfg.Storage.DB
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func openLogger(lc config.LogConfig) (*zap.Logger, func() error, error) {
	opts := logging.Options{
		Level: defaultLogLevel,
		File:  config.DefaultLogPath(),
	}
	if lc.Level != nil {
		opts.Level = *lc.Level
	}
	if lc.File != nil && *lc.File != "" {
		opts.File = *lc.File
	}
	if lc.MaxSizeMB != nil {
		opts.MaxSizeMB = *lc.MaxSizeMB
	}
	if lc.MaxBackups != nil {
		opts.MaxBackups = *lc.MaxBackups
	}
	if lc.MaxAgeDays != nil {
		opts.MaxAgeDays = *lc.MaxAgeDays
	}
	if lc.Compress != nil {
		opts.Compress = *lc.Compress
	}
	logger, closeFn, err := logging.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, closeFn, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func preview(body string, width int) string {
	body = strings.Join(strings.Fields(body), " ")
	r := []rune(body)
	if len(r) <= width {
		return body
	}
	return string(r[:width-3]) + "..."
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.Difficulty < 0 || cfg.Difficulty > textsource.MaxDifficulty {
		return fmt.Errorf("--difficulty must be between 0 and %d", textsource.MaxDifficulty)
	}
	if cfg.Words < 0 {
		return fmt.Errorf("--words must be >= 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.File != "" && cfg.TextID != "" {
		return fmt.Errorf("--file and --id cannot be used together")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
