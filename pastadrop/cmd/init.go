package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/pastadrop/pastadrop/config"
	"github.com/LumeraProtocol/pastadrop/pkg/keyring"
)

var (
	forceInit      bool
	initRPC        string
	initKeyBackend string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the pastadrop config and keyring",
	Long: `Initialize pastadrop by writing a config file under the home directory
and optionally creating or recovering a key.

Example:
  pastadrop init
  pastadrop init --rpc-url http://localhost:8545 --force
  pastadrop init --keyring-backend test`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("config already exists at %s\nUse --force to overwrite it", path)
		}

		cfg := config.DefaultConfig(filepath.Dir(path))
		if initRPC != "" {
			cfg.Ethereum.RPCURL = initRPC
		}
		backend := initKeyBackend
		if backend == "" {
			var err error
			if backend, err = promptKeyringBackend(); err != nil {
				return fmt.Errorf("failed to select keyring backend: %w", err)
			}
		}
		if backend != keyring.BackendFile && backend != keyring.BackendTest {
			return fmt.Errorf("unsupported keyring backend %q (want file or test)", backend)
		}
		cfg.Keyring.Backend = backend
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		appConfig = cfg
		fmt.Printf("Configuration saved to %s\n", path)

		var choice string
		prompt := &survey.Select{
			Message: "Set up a key now?",
			Options: []string{"Create a new key", "Recover from mnemonic", "Skip"},
			Default: "Create a new key",
		}
		if err := survey.AskOne(prompt, &choice); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		switch choice {
		case "Create a new key":
			name, err := askKeyName()
			if err != nil {
				return err
			}
			return addKey(cmd.Context(), name)
		case "Recover from mnemonic":
			name, err := askKeyName()
			if err != nil {
				return err
			}
			return recoverKey(cmd.Context(), name)
		}

		fmt.Println("\nAdd a key later with:")
		fmt.Println("  pastadrop keys add <name>")
		return nil
	},
}

func promptKeyringBackend() (string, error) {
	var backend string
	prompt := &survey.Select{
		Message: "Choose keyring backend:",
		Options: []string{keyring.BackendFile, keyring.BackendTest},
		Default: keyring.BackendFile,
		Help:    "file: encrypted with your passphrase, test: fixed passphrase (dev only)",
	}
	if err := survey.AskOne(prompt, &backend); err != nil {
		return "", err
	}
	return backend, nil
}

func askKeyName() (string, error) {
	var name string
	prompt := &survey.Input{
		Message: "Key name:",
		Default: defaultKeyName,
	}
	if err := survey.AskOne(prompt, &name, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return name, nil
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	initCmd.Flags().StringVar(&initRPC, "rpc-url", "", "Ethereum JSON-RPC endpoint")
	initCmd.Flags().StringVar(&initKeyBackend, "keyring-backend", "", "keyring backend: file or test")
	rootCmd.AddCommand(initCmd)
}
