package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/pastadrop/pkg/keyring"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
)

const defaultKeyName = "default"

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage keys",
	Long: `Manage the mnemonics pastadrop signs with. Each key yields one Ethereum
and one Solana address.`,
}

var keysAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Generate a new key",
	Long: `Generate a new 24-word mnemonic and store it under name.

Example:
  pastadrop keys add mykey`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addKey(cmd.Context(), keyNameArg(args))
	},
}

var keysRecoverCmd = &cobra.Command{
	Use:   "recover [name]",
	Short: "Recover a key from its mnemonic",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recoverKey(cmd.Context(), keyNameArg(args))
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kr, err := openKeyring()
		if err != nil {
			return err
		}
		recs, err := kr.List()
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No keys. Add one with: pastadrop keys add <name>")
			return nil
		}
		for _, r := range recs {
			fmt.Printf("%s\n  ETH: %s\n  SOL: %s\n", r.Name, r.ETHAddress, r.SOLAddress)
		}
		return nil
	},
}

func keyNameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultKeyName
}

func addKey(ctx context.Context, name string) error {
	ctx = logtrace.CtxWithCorrelationID(ctx, "keys-add")
	kr, err := openKeyring()
	if err != nil {
		return err
	}

	mnemonic, rec, err := kr.CreateNewAccount(name, keyring.DefaultEntropyBits)
	if err != nil {
		logtrace.Error(ctx, "Failed to create new account", logtrace.Fields{
			"key_name": name,
			"error":    err.Error(),
		})
		return fmt.Errorf("failed to create new account: %w", err)
	}
	logtrace.Info(ctx, "Key generated successfully", logtrace.Fields{
		"key_name":    rec.Name,
		"eth_address": rec.ETHAddress,
		"sol_address": rec.SOLAddress,
	})

	fmt.Println("Key generated successfully!")
	fmt.Printf("- Name: %s\n", rec.Name)
	fmt.Printf("- ETH address: %s\n", rec.ETHAddress)
	fmt.Printf("- SOL address: %s\n", rec.SOLAddress)
	fmt.Printf("- Mnemonic: %s\n", mnemonic)
	fmt.Println("\nIMPORTANT: Write down the mnemonic and keep it in a safe place.")
	return nil
}

func recoverKey(ctx context.Context, name string) error {
	ctx = logtrace.CtxWithCorrelationID(ctx, "keys-recover")
	kr, err := openKeyring()
	if err != nil {
		return err
	}

	var mnemonic string
	prompt := &survey.Password{Message: "Enter your mnemonic:"}
	if err := survey.AskOne(prompt, &mnemonic, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	rec, err := kr.RecoverAccountFromMnemonic(name, strings.TrimSpace(mnemonic))
	if err != nil {
		logtrace.Error(ctx, "Failed to recover account", logtrace.Fields{
			"key_name": name,
			"error":    err.Error(),
		})
		return fmt.Errorf("failed to recover account: %w", err)
	}
	logtrace.Info(ctx, "Key recovered successfully", logtrace.Fields{"key_name": rec.Name})

	fmt.Printf("Key recovered successfully! Name: %s\n", rec.Name)
	fmt.Printf("- ETH address: %s\n", rec.ETHAddress)
	fmt.Printf("- SOL address: %s\n", rec.SOLAddress)
	return nil
}

func init() {
	keysCmd.AddCommand(keysAddCmd, keysRecoverCmd, keysListCmd)
	rootCmd.AddCommand(keysCmd)
}
