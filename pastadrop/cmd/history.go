package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyKey   string
	historyChain string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or edit the local paste history",
	Long: `The history lists pastes made from this machine, per key and chain.
Removing an entry only forgets it locally; the paste stays on Aleph.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past pastes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, sender, err := historyWallet()
		if err != nil {
			return err
		}
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), chainName, sender)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No pastes for %s on %s\n", historyKey, chainName)
			return nil
		}
		for _, e := range entries {
			preview := strings.ReplaceAll(e.Preview, "\n", " ")
			fmt.Printf("%s  %s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Hash, preview)
		}
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <hash>",
	Short: "Forget a paste locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, sender, err := historyWallet()
		if err != nil {
			return err
		}
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Remove(cmd.Context(), chainName, sender, args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%s is not in the history of %s on %s", args[0], historyKey, chainName)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func historyWallet() (string, string, error) {
	chain, err := parseChain(historyChain)
	if err != nil {
		return "", "", err
	}
	kr, err := openKeyring()
	if err != nil {
		return "", "", err
	}
	sender, err := senderFor(kr, historyKey, chain)
	if err != nil {
		return "", "", err
	}
	return chain.String(), sender, nil
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyKey, "key", defaultKeyName, "key whose history to use")
	historyCmd.PersistentFlags().StringVar(&historyChain, "chain", "eth", "chain: eth or sol")
	historyCmd.AddCommand(historyListCmd, historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}
