// Package main provides the CLI entrypoint for codetype.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/codetype-dev/codetype/internal/config"
	"github.com/codetype-dev/codetype/internal/logging"
	"github.com/codetype-dev/codetype/internal/model"
	"github.com/codetype-dev/codetype/internal/remote"
	"github.com/codetype-dev/codetype/internal/session"
	"github.com/codetype-dev/codetype/internal/stats"
	"github.com/codetype-dev/codetype/internal/store"
	"github.com/codetype-dev/codetype/internal/studybook"
	"github.com/codetype-dev/codetype/internal/tui"
	"github.com/codetype-dev/codetype/internal/typinglog"
)

const (
	envAPIURL   = "CODETYPE_API_URL"
	envAPIToken = "CODETYPE_API_TOKEN"

	remoteTimeout = 20 * time.Second
)

var (
	practiceLang      string
	practiceTimeLimit int
	practiceBackspace bool
	practiceStrict    bool

	statsLang  string
	statsSince string
	statsLast  int
	statsLocal bool

	booksLang string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codetype",
		Short:         "TUI typing trainer for code snippets",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "restrict snippets to a language (e.g. go, python)")
	rootCmd.Flags().IntVar(&practiceTimeLimit, "time-limit", 0, "seconds before an attempt is cut off (0 = unlimited)")
	rootCmd.Flags().BoolVar(&practiceBackspace, "allow-backspace", true, "allow correcting mistakes with backspace")
	rootCmd.Flags().BoolVar(&practiceStrict, "strict", false, "cursor does not advance past a wrong key")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBooksCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("practice requires an interactive terminal")
	}

	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "time-limit", &practiceTimeLimit, fileCfg.Practice.TimeLimit)
	applyBoolConfig(cmd, "allow-backspace", &practiceBackspace, fileCfg.Practice.AllowBackspace)
	applyBoolConfig(cmd, "strict", &practiceStrict, fileCfg.Practice.Strict)

	settings, err := session.NewSettings(practiceTimeLimit, practiceBackspace, practiceStrict)
	if err != nil {
		return err
	}

	logger, err := logging.New(config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	client := newRemoteClient(fileCfg, logger)
	repo := typinglog.NewResilient(remoteStore(client), st, logger)

	books, err := loadBooks(client, logger)
	if err != nil {
		return err
	}
	if practiceLang != "" {
		books = studybook.FilterLang(books, practiceLang)
		if len(books) == 0 {
			return fmt.Errorf("no snippets for language %q", practiceLang)
		}
	}

	program := tea.NewProgram(tui.NewModel(books, settings, repo, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show typing statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().BoolVar(&statsLocal, "local", false, "skip the remote API even when configured")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	statsCfg := model.StatsConfig{
		Lang:  statsLang,
		Since: sinceTime,
		Last:  statsLast,
	}

	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var client *remote.Client
	if !statsLocal {
		client = newRemoteClient(fileCfg, logger)
	}
	repo := typinglog.NewResilient(remoteStore(client), st, logger)

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	records, err := repo.List(ctx, statsCfg)
	if err != nil {
		return fmt.Errorf("failed to load typing logs: %w", err)
	}

	snapshot := stats.Aggregate(records)
	if client != nil {
		summary, err := client.FetchSummary(ctx)
		if err != nil {
			logErrf("remote summary unavailable: %v\n", err)
		} else {
			snapshot = stats.MergeRemoteSummary(snapshot, summary)
		}
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderReportWith(out, snapshot, records); err != nil {
		return fmt.Errorf("failed to render stats: %w", err)
	}
	return stats.RenderTrend(out, records, terminalWidth())
}

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List available snippets",
		Args:  cobra.NoArgs,
		RunE:  runBooksCmd,
	}
	cmd.Flags().StringVar(&booksLang, "lang", "", "language filter")
	return cmd
}

func runBooksCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	books, err := loadBooks(newRemoteClient(fileCfg, zap.NewNop()), zap.NewNop())
	if err != nil {
		return err
	}
	if booksLang != "" {
		books = studybook.FilterLang(books, booksLang)
	}
	if len(books) == 0 {
		return fmt.Errorf("no snippets found")
	}
	for _, book := range books {
		preview := strings.ReplaceAll(book.Question, "\n", " ")
		if len([]rune(preview)) > 60 {
			preview = string([]rune(preview)[:57]) + "..."
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-24s %s\n", book.Language, book.ID, preview); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadFileConfig reads the TOML config and .env overrides. A missing
// .env file is fine.
func loadFileConfig() (config.FileConfig, error) {
	_ = godotenv.Load()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if url := strings.TrimSpace(os.Getenv(envAPIURL)); url != "" {
		fileCfg.Remote.URL = &url
	}
	if token := strings.TrimSpace(os.Getenv(envAPIToken)); token != "" {
		fileCfg.Remote.Token = &token
	}
	return fileCfg, nil
}

// newRemoteClient returns nil when no API URL is configured.
func newRemoteClient(fileCfg config.FileConfig, logger *zap.Logger) *remote.Client {
	if fileCfg.Remote.URL == nil || strings.TrimSpace(*fileCfg.Remote.URL) == "" {
		return nil
	}
	cfg := model.RemoteConfig{BaseURL: strings.TrimSpace(*fileCfg.Remote.URL)}
	if fileCfg.Remote.Token != nil {
		cfg.Token = strings.TrimSpace(*fileCfg.Remote.Token)
	}
	return remote.New(cfg, logger)
}

// remoteStore widens the nil check: a nil *remote.Client stuffed into
// the interface would not compare equal to nil anymore.
func remoteStore(client *remote.Client) typinglog.Store {
	if client == nil {
		return nil
	}
	return client
}

func loadBooks(client *remote.Client, logger *zap.Logger) ([]model.StudyBook, error) {
	local, err := studybook.LoadDir(config.DefaultStudyBookDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load snippet files: %w", err)
	}
	var fetched []model.StudyBook
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		fetched, err = client.ListStudyBooks(ctx)
		if err != nil {
			logger.Warn("failed to fetch remote snippets", zap.Error(err))
		}
	}
	return studybook.Merge(fetched, local, studybook.Builtin()), nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return `# codetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = ""               # Restrict snippets to a language
# time-limit = 0          # Seconds before an attempt is cut off (0 = unlimited)
# allow-backspace = true  # Allow correcting mistakes with backspace
# strict = false          # Cursor does not advance past a wrong key

[remote]
# url = ""                # Practice API base URL
# token = ""              # Bearer token for the practice API
`
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
