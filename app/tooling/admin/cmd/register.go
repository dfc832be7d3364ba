package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <host:port>",
	Short: "Add a node to the network through this node.",
	Args:  cobra.ExactArgs(1),
	RunE:  registerRun,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func registerRun(cmd *cobra.Command, args []string) error {
	pr := struct {
		Host string `json:"host"`
	}{
		Host: args[0],
	}

	return call(cmd, http.MethodPost, "/v1/peers/register", pr)
}
