package cmd

import (
	"fmt"
	"os"

	"finfeed/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finfeed",
	Short: "Personal statement consolidation and spending dashboard tool",
	Long: `Finfeed consolidates credit-card and checking-account statement exports
into normalized, categorized datasets and renders a static spending
dashboard with monthly totals, ABC analysis and budget tracking.

The pipeline runs in two steps per domain:

  finfeed consolidate --input "assets/Nubank_*.csv"
  finfeed build

  finfeed checking --input "assets/NU_*.csv" --year 2025

Examples:
  finfeed consolidate --input "assets/Nubank_*.csv"
  finfeed build --input assets/consolidated_12m_expenses.csv --output index.html
  finfeed checking --input "assets/NU_*.csv" --year 2025
  finfeed --version`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Read environment variables that match
	viper.SetEnvPrefix("FINFEED")
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		if log, err := logger.NewLogger(logger.DebugConfig()); err == nil {
			logger.SetGlobalLogger(log)
		}
	}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
