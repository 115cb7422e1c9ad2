// Package main provides the CLI entrypoint for tuitoeic.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuitoeic/internal/catalog"
	"github.com/verte-zerg/tuitoeic/internal/config"
	"github.com/verte-zerg/tuitoeic/internal/exercise"
	"github.com/verte-zerg/tuitoeic/internal/generator"
	"github.com/verte-zerg/tuitoeic/internal/logger"
	"github.com/verte-zerg/tuitoeic/internal/model"
	"github.com/verte-zerg/tuitoeic/internal/render"
	"github.com/verte-zerg/tuitoeic/internal/server"
	"github.com/verte-zerg/tuitoeic/internal/tui"
)

const (
	defaultNarrowWidth   = tui.DefaultNarrowWidth
	defaultBackend       = catalog.BackendFS
	defaultRedisAddr     = "localhost:6379"
	defaultAddr          = "127.0.0.1:8080"
	defaultLogMode       = "dev"
	terminalWidthBackup  = 80
	serverTimeoutPadding = 10 * time.Second
)

var (
	practiceNarrowWidth int
	practiceKey         string
	practiceTopic       string

	catalogBackend string
	generatorModel string

	showAnswers bool

	serveAddr    string
	serveLogMode string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuitoeic",
		Short:         "TUI trainer for TOEIC reading",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&catalogBackend, "backend", defaultBackend, "catalog backend (fs, sqlite, redis)")
	rootCmd.PersistentFlags().StringVar(&generatorModel, "model", generator.DefaultModel, "generation model")

	addPracticeFlags(rootCmd)
	rootCmd.Flags().StringVar(&practiceKey, "key", "", "replay a saved exercise")

	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newPart5Cmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&practiceNarrowWidth, "narrow-width", defaultNarrowWidth, "terminal width below which panels become tabs")
	cmd.Flags().StringVar(&practiceTopic, "topic", "", "topic hint for generated exercises")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	log := openFileLogger()
	defer log.Sync()

	ctx := context.Background()
	store, err := catalog.Open(ctx, catalogConfig(cmd, fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logErrf("failed to close catalog: %v\n", cerr)
		}
	}()

	var replay *model.Exercise
	if cfg.Key != "" {
		ex, err := store.Get(ctx, cfg.Key)
		if err != nil {
			return fmt.Errorf("failed to load exercise %q: %w", cfg.Key, err)
		}
		if err := exercise.Validate(ex).Err(); err != nil {
			return fmt.Errorf("failed to load exercise %q: %w", cfg.Key, err)
		}
		replay = &ex
	}

	gen := newGenerator(generatorConfig(cmd, fileCfg), log)
	fetch := func(ctx context.Context) (tui.Loaded, error) {
		if replay != nil {
			ex := *replay
			replay = nil
			return tui.Loaded{Exercise: ex, Key: cfg.Key}, nil
		}
		ex, err := gen.GenerateExercise(ctx, cfg.Topic)
		if err != nil {
			return tui.Loaded{}, err
		}
		key, err := store.Save(ctx, ex)
		if err != nil {
			log.Error("failed to save exercise", "error", err)
			return tui.Loaded{Exercise: ex}, nil
		}
		return tui.Loaded{Exercise: ex, Key: key}, nil
	}

	m := tui.NewDynamic(tui.Options{
		Title:       "TOEIC Part 7",
		NarrowWidth: cfg.NarrowWidth,
		Fetch:       fetch,
		Log:         log,
	})
	return runProgram(m)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Practice the built-in sample exercise",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	log := openFileLogger()
	defer log.Sync()

	m := tui.NewStatic(exercise.Demo(), tui.Options{
		Title:       "TOEIC Part 7 Demo",
		NarrowWidth: cfg.NarrowWidth,
		Log:         log,
	})
	return runProgram(m)
}

func newPart5Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "part5",
		Short: "Practice generated incomplete-sentence questions",
		Args:  cobra.NoArgs,
		RunE:  runPart5Cmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

func runPart5Cmd(cmd *cobra.Command, _ []string) error {
	fileCfg, cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	log := openFileLogger()
	defer log.Sync()

	gen := newGenerator(generatorConfig(cmd, fileCfg), log)
	fetch := func(ctx context.Context) (tui.Loaded, error) {
		sq, err := gen.GenerateSentence(ctx, cfg.Topic)
		if err != nil {
			return tui.Loaded{}, err
		}
		ex, err := exercise.FromSentence(sq)
		if err != nil {
			return tui.Loaded{}, err
		}
		return tui.Loaded{Exercise: ex}, nil
	}

	m := tui.NewDynamic(tui.Options{
		Title:       "TOEIC Part 5",
		NarrowWidth: cfg.NarrowWidth,
		Instant:     true,
		Fetch:       fetch,
		Log:         log,
	})
	return runProgram(m)
}

func runProgram(m tea.Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and save a Part 7 exercise",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().StringVar(&practiceTopic, "topic", "", "topic hint for the generated exercise")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := openFileLogger()
	defer log.Sync()

	gen, err := generator.New(generatorConfig(cmd, fileCfg), log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.Open(ctx, catalogConfig(cmd, fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logErrf("failed to close catalog: %v\n", cerr)
		}
	}()

	logErrln("Generating exercise...")
	ex, err := gen.GenerateExercise(ctx, strings.TrimSpace(practiceTopic))
	if err != nil {
		return fmt.Errorf("failed to generate exercise: %w", err)
	}
	key, err := store.Save(ctx, ex)
	if err != nil {
		return fmt.Errorf("failed to save exercise: %w", err)
	}
	logErrf("Saved %q with %d questions\n", ex.Passage.Title, len(ex.Questions))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), key); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved exercises, most recent first",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := context.Background()
	store, err := catalog.Open(ctx, catalogConfig(cmd, fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logErrf("failed to close catalog: %v\n", cerr)
		}
	}()

	keys, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(keys) == 0 {
		logErrln("No saved exercises. Generate one with: tuitoeic generate")
		return nil
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), key); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Print a saved exercise",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().BoolVar(&showAnswers, "answers", false, "include correct answers and explanations")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := context.Background()
	store, err := catalog.Open(ctx, catalogConfig(cmd, fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logErrf("failed to close catalog: %v\n", cerr)
		}
	}()

	key := strings.TrimSuffix(args[0], ".json")
	ex, err := store.Get(ctx, key)
	if errors.Is(err, catalog.ErrNotFound) {
		logErrln("List saved exercises with: tuitoeic list")
		return fmt.Errorf("exercise %q not found", key)
	}
	if err != nil {
		return fmt.Errorf("failed to load exercise: %w", err)
	}
	for _, issue := range exercise.Validate(ex).Warnings() {
		logErrf("warning: %s\n", issue)
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), render.Text(ex, terminalWidth(), showAnswers)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generation and the catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveLogMode, "log-mode", defaultLogMode, "log encoder (dev, prod)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	srvCfg := serverConfig(cmd, fileCfg)
	log, err := logger.New(srvCfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.Open(ctx, catalogConfig(cmd, fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Error("failed to close catalog", "error", cerr)
		}
	}()

	genCfg := generatorConfig(cmd, fileCfg)
	var timeout time.Duration
	if genCfg.TimeoutSeconds > 0 {
		timeout = time.Duration(genCfg.TimeoutSeconds)*time.Second + serverTimeoutPadding
	}
	handler := server.NewRouter(server.Deps{
		Gen:     newGenerator(genCfg, log),
		Catalog: store,
		Log:     log,
	}, server.Options{
		AllowedOrigins: srvCfg.AllowedOrigins,
		RequestTimeout: timeout,
	})
	srv := &http.Server{
		Addr:              srvCfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.Serve(ctx, srv, log)
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

func loadPracticeConfig(cmd *cobra.Command) (config.FileConfig, model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "narrow-width", &practiceNarrowWidth, fileCfg.Practice.NarrowWidth)
	cfg := model.Config{
		NarrowWidth: practiceNarrowWidth,
		Key:         strings.TrimSuffix(strings.TrimSpace(practiceKey), ".json"),
		Topic:       strings.TrimSpace(practiceTopic),
	}
	if err := validateConfig(cfg); err != nil {
		return config.FileConfig{}, model.Config{}, err
	}
	return fileCfg, cfg, nil
}

func generatorConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.GeneratorConfig {
	applyStringConfig(cmd, "model", &generatorModel, fileCfg.Generator.Model)
	cfg := model.GeneratorConfig{
		APIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:          generatorModel,
		BaseURL:        generator.DefaultBaseURL,
		TimeoutSeconds: generator.DefaultTimeoutSeconds,
	}
	if fileCfg.Generator.BaseURL != nil {
		cfg.BaseURL = *fileCfg.Generator.BaseURL
	}
	if fileCfg.Generator.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *fileCfg.Generator.TimeoutSeconds
	}
	return cfg
}

func catalogConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.CatalogConfig {
	applyStringConfig(cmd, "backend", &catalogBackend, fileCfg.Catalog.Backend)
	cfg := model.CatalogConfig{
		Backend:   catalogBackend,
		Dir:       config.DefaultCatalogDir(),
		DBPath:    config.DefaultDBPath(),
		RedisAddr: defaultRedisAddr,
	}
	if fileCfg.Catalog.Dir != nil {
		cfg.Dir = *fileCfg.Catalog.Dir
	}
	if fileCfg.Catalog.DBPath != nil {
		cfg.DBPath = *fileCfg.Catalog.DBPath
	}
	if fileCfg.Catalog.RedisAddr != nil {
		cfg.RedisAddr = *fileCfg.Catalog.RedisAddr
	}
	if fileCfg.Catalog.RedisDB != nil {
		cfg.RedisDB = *fileCfg.Catalog.RedisDB
	}
	return cfg
}

func serverConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.ServerConfig {
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "log-mode", &serveLogMode, fileCfg.Server.LogMode)
	return model.ServerConfig{
		Addr:           serveAddr,
		LogMode:        serveLogMode,
		AllowedOrigins: fileCfg.Server.AllowedOrigins,
	}
}

// newGenerator never fails: a misconfigured client is replaced by one that
// reports the configuration error on every call.
func newGenerator(cfg model.GeneratorConfig, log *logger.Logger) server.Generator {
	gen, err := generator.New(cfg, log)
	if err != nil {
		log.Warn("generation disabled", "error", err)
		return generator.Disabled{Err: err}
	}
	return gen
}

func openFileLogger() *logger.Logger {
	log, err := logger.New(defaultLogMode, config.DefaultLogPath())
	if err != nil {
		logErrf("failed to open log file: %v\n", err)
		return logger.Nop()
	}
	return log
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuitoeic configuration
# Uncomment a value to enable it. CLI flags override config values.
# The generation API key is read from GEMINI_API_KEY only.

[practice]
# narrow-width = %d        # Terminal width below which panels become tabs

[generator]
# model = %q
# base-url = %q
# timeout-seconds = %d     # 0 disables the timeout

[catalog]
# backend = %q              # fs, sqlite or redis
# dir = %q
# db-path = %q
# redis-addr = %q
# redis-db = 0

[server]
# addr = %q
# log-mode = %q             # dev or prod
# allowed-origins = ["http://localhost:3000"]
`,
		defaultNarrowWidth,
		generator.DefaultModel,
		generator.DefaultBaseURL,
		generator.DefaultTimeoutSeconds,
		defaultBackend,
		config.DefaultCatalogDir(),
		config.DefaultDBPath(),
		defaultRedisAddr,
		defaultAddr,
		defaultLogMode,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.NarrowWidth <= 0 {
		return fmt.Errorf("--narrow-width must be > 0")
	}
	if cfg.Key != "" && !catalog.ValidKey(cfg.Key) {
		return fmt.Errorf("--key %q is not a valid exercise key", cfg.Key)
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
