// Package main provides the entry point for the Resume Analyzer HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-analyzer/internal/config"
)

var (
	configFile string
	v          = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "resume_analyzer",
	Short: "Resume Analyzer HTTP API Server",
	Long: "Resume Analyzer extracts text and signals from uploaded resumes, scores them against job profiles " +
		"and adds a model-written narrative, via REST API or from the command line.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit JSON logs")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("db-url", "", "PostgreSQL URL for job profiles (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().String("api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")

	mustBind(rootCmd, "log.json", "log-json")
	mustBind(rootCmd, "log.debug", "debug")
	mustBind(rootCmd, "database.url", "db-url")
	mustBind(rootCmd, "llm.api_key", "api-key")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults, the config file, environment and flags.
func loadConfig() (*config.Config, error) {
	return config.Load(v, configFile)
}
