package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/pastadrop/pastadrop/config"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
	"github.com/LumeraProtocol/pastadrop/sdk/action"
)

const serviceName = "pastadrop"

var (
	cfgFile   string
	baseDir   string
	logEnv    string
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pastadrop",
	Short: "Share text pastes on Aleph, signed by your wallet",
	Long: `pastadrop stores text on the Aleph network as a STORE message signed by
an Ethereum or Solana key, and fetches pastes back by content hash.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(home, config.DefaultBaseDir)
		}
		if cfgFile == "" {
			cfgFile = filepath.Join(baseDir, config.DefaultConfigFile)
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		logtrace.Setup(serviceName, logEnv, cfg.LogLevel())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logtrace.Sync()
	},
}

// Execute runs the command tree and prints the error, with guidance, if any.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if kind := action.Classify(err); kind != action.KindUnknown {
			fmt.Fprintln(os.Stderr, kind.Guidance())
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "home", "", "pastadrop home directory (default: ~/.pastadrop)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <home>/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logEnv, "log-format", "dev", `log encoding: "dev" for console, anything else for JSON`)
}
