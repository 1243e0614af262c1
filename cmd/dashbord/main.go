package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// timeFormat is used for every timestamp shown to the user.
const timeFormat = "02.01.2006 15:04"

var (
	cfgFile  string
	version  = "dev"
	settings *config.Settings
	logFile  *os.File
	rootCmd  = &cobra.Command{
		Use:   "dashbord",
		Short: "Terminal dashboard for sales and task summaries",
		Long: `dashbord renders the company dashboard in the terminal: summary tables
with drill-down into the orders and tasks behind each row.`,
		SilenceUsage:       true,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: closeLogging,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/dashbord/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("api-url", "", "dashboard backend base URL")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveFixtureCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err, err.Error())))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env", filepath.Join(config.DefaultDir(), ".env")); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.ExpandPath(config.DefaultDir()))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	s, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings = s

	if err := setupLogging(cmd.Name() == "view"); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// setupLogging writes to stderr, or to the log file while the full-screen
// view owns the terminal.
func setupLogging(toFile bool) error {
	level := common.ParseLevel(settings.Logging.Level)
	if !toFile || settings.Logging.File == "" {
		return common.SetupLogger(level, settings.Logging.Format)
	}

	f, err := common.OpenLogFile(settings.Logging.File)
	if err != nil {
		return err
	}
	logFile = f
	return common.SetupLoggerTo(f, level, settings.Logging.Format)
}

func closeLogging(_ *cobra.Command, _ []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dashbord %s\n", version)
		},
	}
}
