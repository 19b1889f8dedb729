package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/pastadrop/sdk/adapters/aleph"
)

var linkCmd = &cobra.Command{
	Use:   "link <hash>",
	Short: "Print the raw and explorer links of a paste",
	Long: `Print where the gateway serves a paste. The explorer link is only known
for pastes created on this machine.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash := args[0]
		fmt.Printf("Raw: %s\n", aleph.RawURL(appConfig.Aleph.Gateway, hash))

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		meta, ok, err := store.ExplorerMeta(cmd.Context(), hash)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Explorer: unknown (paste not created here)")
			return nil
		}
		fmt.Printf("Explorer: %s\n", aleph.ExplorerURL(appConfig.Aleph.ExplorerURL, meta.Chain, meta.Sender, meta.ItemHash))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
