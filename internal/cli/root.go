package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"quisqueya-quiz/internal/config"
)

// settings is resolved once per invocation, before any subcommand runs.
type settings struct {
	cfg config.Config
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	s := &settings{}

	cmd := &cobra.Command{
		Use:          "quisqueya-quiz",
		Short:        "Terminal multiple-choice quiz with a persistent leaderboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.resolve(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.String("config", "quiz.yaml", "path to YAML config")
	f.String("env-file", ".env", "dotenv file loaded before reading QUIZ_* variables")
	f.String("lang", "", "UI language (fr, en)")
	f.String("questions-dir", "", "directory of question JSON files")
	f.String("questions-file", "", "single question file used when the directory is missing")
	f.String("scores-backend", "", "score storage backend (json, sqlite, memory)")
	f.String("scores-path", "", "JSON score file")
	f.String("sqlite-path", "", "SQLite score database")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (text, json)")

	cmd.AddCommand(
		NewPlayCmd(s),
		NewLeaderboardCmd(s),
		NewThemesCmd(s),
		NewAddQuestionCmd(s),
		NewMigrateCmd(s),
	)
	return cmd
}

// resolve layers defaults, the YAML file, QUIZ_* environment variables and flags, in that order.
func (s *settings) resolve(cmd *cobra.Command) error {
	v := viperForCmd(cmd)

	if err := godotenv.Load(v.GetString("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("error reading env file", "path", v.GetString("env-file"), "error", err)
	}

	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return err
	}
	overrides := map[string]*string{
		"lang":           &cfg.UI.Lang,
		"questions-dir":  &cfg.Questions.Dir,
		"questions-file": &cfg.Questions.File,
		"scores-backend": &cfg.Scores.Backend,
		"scores-path":    &cfg.Scores.Path,
		"sqlite-path":    &cfg.Scores.SQLitePath,
		"log-level":      &cfg.Log.Level,
		"log-format":     &cfg.Log.Format,
	}
	for key, dst := range overrides {
		if v.IsSet(key) && v.GetString(key) != "" {
			*dst = v.GetString(key)
		}
	}
	s.cfg = cfg

	setupLogging(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return nil
}

func setupLogging(w io.Writer, level, format string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		logHandler = slog.NewJSONHandler(w, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and QUIZ_* environment variables to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}
