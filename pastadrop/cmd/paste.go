package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/pastadrop/pkg/history"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
	"github.com/LumeraProtocol/pastadrop/sdk/action"
	"github.com/LumeraProtocol/pastadrop/sdk/adapters/aleph"
	"github.com/LumeraProtocol/pastadrop/sdk/event"
)

var (
	pasteKey   string
	pasteChain string
	pasteYes   bool
)

var pasteCmd = &cobra.Command{
	Use:   "paste [file]",
	Short: "Store text on Aleph",
	Long: `Store the contents of file, or stdin when no file is given, on Aleph.
The STORE message is signed by the chosen key on the chosen chain.

Example:
  echo "hello" | pastadrop paste
  pastadrop paste notes.txt --chain sol --key work`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "paste")

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		chain, err := parseChain(pasteChain)
		if err != nil {
			return err
		}
		kr, err := openKeyring()
		if err != nil {
			return err
		}
		w, _, err := loadWallet(kr, pasteKey, chain, pasteYes)
		if err != nil {
			return err
		}

		client, err := newActionClient(false)
		if err != nil {
			return err
		}
		client.SubscribeToAllEvents(func(e event.Event) {
			if msg, ok := progressMessages[e.Type]; ok {
				fmt.Fprintln(os.Stderr, msg)
			}
		})

		res, err := client.CreatePaste(ctx, w, text)
		if err != nil {
			return err
		}

		chainName := res.Chain.String()
		fmt.Println("Paste stored!")
		fmt.Printf("- Hash: %s\n", res.FileHash)
		fmt.Printf("- Raw: %s\n", aleph.RawURL(appConfig.Aleph.Gateway, res.FileHash))
		fmt.Printf("- Explorer: %s\n", aleph.ExplorerURL(appConfig.Aleph.ExplorerURL, chainName, res.Sender, res.ItemHash))

		recordPaste(ctx, res, text)
		return nil
	},
}

// recordPaste writes the local history entry for a stored paste. The paste
// is already on Aleph, so failures here only warn.
func recordPaste(ctx context.Context, res action.PasteResult, text string) {
	store, err := openHistory()
	if err != nil {
		logtrace.Warn(ctx, "Failed to open history", logtrace.Fields{logtrace.FieldError: err.Error()})
		return
	}
	defer store.Close()

	chainName := res.Chain.String()
	if err := store.Add(ctx, chainName, res.Sender, history.Entry{Hash: res.FileHash, Preview: text, Chain: chainName}); err != nil {
		logtrace.Warn(ctx, "Failed to record history", logtrace.Fields{logtrace.FieldError: err.Error()})
	}
	if err := store.PutExplorerMeta(ctx, res.FileHash, history.ExplorerMeta{ItemHash: res.ItemHash, Sender: res.Sender, Chain: chainName}); err != nil {
		logtrace.Warn(ctx, "Failed to record explorer metadata", logtrace.Fields{logtrace.FieldError: err.Error()})
	}
}

var progressMessages = map[event.EventType]string{
	event.PasteAddressResolved:  "Wallet connected",
	event.PastePreflightPassed:  "Entitlement checked",
	event.PasteSignatureRequest: "Waiting for signature...",
	event.PasteSubmitted:        "Submitting to Aleph...",
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func init() {
	pasteCmd.Flags().StringVar(&pasteKey, "key", defaultKeyName, "key to sign with")
	pasteCmd.Flags().StringVar(&pasteChain, "chain", "eth", "signing chain: eth or sol")
	pasteCmd.Flags().BoolVarP(&pasteYes, "yes", "y", false, "sign without asking")
	rootCmd.AddCommand(pasteCmd)
}
