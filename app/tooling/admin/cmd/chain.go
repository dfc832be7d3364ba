package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a new block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/mine", nil)
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain, the pending transactions and the network nodes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/blockchain", nil)
	},
}

var consensusCmd = &cobra.Command{
	Use:   "consensus",
	Short: "Resolve the node's chain against its peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/consensus", nil)
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <hash>",
	Short: "Print the block with the specified hash.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/block/"+args[0], nil)
	},
}

var lookupTxCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Print the transaction with the specified id and its block.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/tx/"+args[0], nil)
	},
}

var addressCmd = &cobra.Command{
	Use:   "address <address>",
	Short: "Print the transactions and balance of an address.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/address/"+args[0], nil)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd, chainCmd, consensusCmd, blockCmd, lookupTxCmd, addressCmd)
}
