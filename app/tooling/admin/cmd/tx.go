package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	amount    float64
	sender    string
	recipient string
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Create a transaction and broadcast it to the network.",
	RunE:  txRun,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.Flags().Float64VarP(&amount, "amount", "m", 0, "Amount to send.")
	txCmd.Flags().StringVarP(&sender, "sender", "s", "", "Address sending the amount.")
	txCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Address receiving the amount.")
	txCmd.MarkFlagRequired("sender")
	txCmd.MarkFlagRequired("recipient")
}

func txRun(cmd *cobra.Command, args []string) error {
	tx := struct {
		Amount    float64 `json:"amount"`
		Sender    string  `json:"sender"`
		Recipient string  `json:"recipient"`
	}{
		Amount:    amount,
		Sender:    sender,
		Recipient: recipient,
	}

	return call(cmd, http.MethodPost, "/v1/tx/broadcast", tx)
}
