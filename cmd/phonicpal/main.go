// Package main provides the CLI entrypoint for phonicpal.
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
	"github.com/spf13/cobra"

	"github.com/verte-zerg/phonicpal/internal/audio"
	"github.com/verte-zerg/phonicpal/internal/catalog"
	"github.com/verte-zerg/phonicpal/internal/config"
	"github.com/verte-zerg/phonicpal/internal/deck"
	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/nav"
	"github.com/verte-zerg/phonicpal/internal/stats"
	"github.com/verte-zerg/phonicpal/internal/statsui"
	"github.com/verte-zerg/phonicpal/internal/store"
	"github.com/verte-zerg/phonicpal/internal/tui"
)

const (
	defaultWeakTop     = 8
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
)

var (
	practiceAge        string
	practiceTopic      string
	practiceCatalog    string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakWindow int
	practiceNoAudio    bool
	practiceDebug      bool

	statsAge         string
	statsTopic       string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	topicsAge     string
	topicsCatalog string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "phonicpal",
		Short:         "Pronunciation practice game for kids",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	rootCmd.Flags().StringVar(&practiceAge, "age", "", "age group to start with (preschool, grade1 ... grade6)")
	rootCmd.Flags().StringVar(&practiceTopic, "topic", "", "topic to start with (nature, science, history, arts, life)")
	rootCmd.Flags().StringVar(&practiceCatalog, "catalog", "", "path to a custom word catalog (TOML)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "build the deck from recently struggled words")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak words to practice")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to find weak words in")
	rootCmd.Flags().BoolVar(&practiceNoAudio, "no-audio", false, "disable narration and sound effects")
	rootCmd.Flags().BoolVar(&practiceDebug, "debug", false, "write debug records to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCacheCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	loadEnv()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "age", &practiceAge, fileCfg.Practice.Age)
	applyStringConfig(cmd, "topic", &practiceTopic, fileCfg.Practice.Topic)
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyBoolConfig(cmd, "no-audio", &practiceNoAudio, fileCfg.Practice.NoAudio)

	cfg, err := buildConfig(practiceAge, practiceTopic)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	settings, err := resolveMediaSettings(fileCfg)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(config.DefaultLogPath(), practiceDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	svc, err := newMediaService(st, settings, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	builder := deck.New()
	controller := nav.New(cat, builder, deck.BuildReview)
	if err := preselect(ctx, controller, st, builder, cfg); err != nil {
		return err
	}

	var player audio.Player = audio.NewCommandPlayer(settings.playCmd)
	if cfg.NoAudio {
		player = audio.SilentPlayer{}
	}

	logger.Info("starting game", "age", cfg.Age.Slug(), "topic", cfg.Topic.Slug(), "focus_weak", cfg.FocusWeak, "no_audio", cfg.NoAudio)
	game := tui.NewModel(ctx, controller, tui.Options{
		Media:    svc,
		Mic:      audio.NewCommandMicrophone(settings.recordCmd),
		Player:   player,
		Voices:   settings.voices,
		Recorder: st,
		Logger:   logger,
	})
	program := tea.NewProgram(game, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// preselect walks the controller to the screen implied by the flags. A weak
// word deck skips the topic picker; age and topic only skip the pickers they
// answer.
func preselect(ctx context.Context, controller *nav.Controller, st *store.Store, builder *deck.Builder, cfg model.Config) error {
	if cfg.Age.Valid() {
		if err := controller.Open(); err != nil {
			return err
		}
		if err := controller.SelectAge(cfg.Age); err != nil {
			return err
		}
	}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakWords(ctx, cfg.WeakWindow, cfg.Age, cfg.Topic)
		if err != nil {
			logErrf("failed to load weak words: %v\n", err)
		} else {
			words := stats.SelectWeakWords(aggs, cfg.WeakTop)
			if weakDeck := builder.BuildFromWords(controller.Catalog(), words); len(weakDeck) > 0 {
				return controller.LoadDeck(cfg.Topic, weakDeck)
			}
			logErrln("no history available for weak-word focus yet; using a normal deck")
		}
	}
	if !cfg.Age.Valid() || !cfg.Topic.Valid() {
		return nil
	}
	return controller.SelectTopic(cfg.Topic)
}

func buildConfig(age, topic string) (model.Config, error) {
	cfg := model.Config{
		Catalog:    practiceCatalog,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakWindow: practiceWeakWindow,
		NoAudio:    practiceNoAudio,
	}
	if strings.TrimSpace(age) != "" {
		parsed, err := model.ParseAgeGroup(age)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid --age value: %w", err)
		}
		cfg.Age = parsed
	}
	if strings.TrimSpace(topic) != "" {
		parsed, err := model.ParseTopic(topic)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid --topic value: %w", err)
		}
		cfg.Topic = parsed
	}
	return cfg, nil
}

func loadCatalog(path string) (catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		cat, err := catalog.Default()
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	if cat.Len() == 0 {
		return catalog.Catalog{}, fmt.Errorf("catalog %s has no words", path)
	}
	return cat, nil
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

func newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List topics and how many words each has",
		Args:  cobra.NoArgs,
		RunE:  runTopicsCmd,
	}
	cmd.Flags().StringVar(&topicsAge, "age", "", "age group to count words for (default: all)")
	cmd.Flags().StringVar(&topicsCatalog, "catalog", "", "path to a custom word catalog (TOML)")
	return cmd
}

func runTopicsCmd(cmd *cobra.Command, _ []string) error {
	var ages []model.AgeGroup
	if strings.TrimSpace(topicsAge) != "" {
		age, err := model.ParseAgeGroup(topicsAge)
		if err != nil {
			return fmt.Errorf("invalid --age value: %w", err)
		}
		ages = []model.AgeGroup{age}
	} else {
		ages = model.AgeGroups
	}
	cat, err := loadCatalog(topicsCatalog)
	if err != nil {
		return err
	}
	for _, line := range topicLines(cat, ages) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// topicLines renders one row per topic with a count column per age group.
func topicLines(cat catalog.Catalog, ages []model.AgeGroup) []string {
	header := fmt.Sprintf("%-10s %-22s", "slug", "topic")
	for _, age := range ages {
		header += fmt.Sprintf(" %10s", age.Slug())
	}
	lines := []string{header}
	for _, topic := range model.Topics {
		line := fmt.Sprintf("%-10s %-22s", topic.Slug(), string(topic))
		for _, age := range ages {
			line += fmt.Sprintf(" %10d", cat.Count(age, topic))
		}
		lines = append(lines, line)
	}
	return lines
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsAge, "age", "", "age group filter")
	cmd.Flags().StringVar(&statsTopic, "topic", "", "topic filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report instead of opening the viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsAge, statsTopic, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return writePlainReport(cmd.OutOrStdout(), report, cfg)
	}

	load := func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(load, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(age, topic, since string, last, curveWindow int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, CurveWindow: curveWindow}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be greater than 0")
	}
	if strings.TrimSpace(age) != "" {
		parsed, err := model.ParseAgeGroup(age)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --age value: %w", err)
		}
		cfg.Age = parsed
	}
	if strings.TrimSpace(topic) != "" {
		parsed, err := model.ParseTopic(topic)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --topic value: %w", err)
		}
		cfg.Topic = parsed
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the illustration cache",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfoCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached illustration",
		Args:  cobra.NoArgs,
		RunE:  runCacheClearCmd,
	})
	return cmd
}

func runCacheInfoCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	entries, size, err := st.ImageCache(0).Usage(context.Background(), media.KeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to read cache usage: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d illustrations, %s\n", entries, formatBytes(size)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runCacheClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	cached, err := media.NewCachedService(nil, st.ImageCache(0))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	n, err := cached.Purge(context.Background())
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d illustrations\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
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

func validateConfig(cfg model.Config) error {
	if cfg.WeakTop <= 0 {
		return fmt.Errorf("--weak-top must be greater than 0")
	}
	if cfg.WeakWindow <= 0 {
		return fmt.Errorf("--weak-window must be greater than 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
