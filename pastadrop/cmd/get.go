package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
)

var getOutput string

var getCmd = &cobra.Command{
	Use:   "get <hash>...",
	Short: "Fetch pastes by content hash",
	Long: `Fetch the bytes stored under each hash and write them to stdout, or to
--output when a single hash is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "get")
		if getOutput != "" && len(args) > 1 {
			return fmt.Errorf("--output takes a single hash")
		}

		client, err := newActionClient(len(args) > 1)
		if err != nil {
			return err
		}

		for _, hash := range args {
			body, err := client.FetchPaste(ctx, hash)
			if err != nil {
				return fmt.Errorf("%s: %w", hash, err)
			}
			if getOutput != "" {
				if err := os.WriteFile(getOutput, body, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", getOutput, err)
				}
				continue
			}
			if _, err := cmd.OutOrStdout().Write(body); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "write the paste to this file")
	rootCmd.AddCommand(getCmd)
}
