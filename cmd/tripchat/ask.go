package main

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single message and print the reply",
	Long:  `Send a single message on a fresh thread. Include every trip detail to get packages in one go.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := turn(cmd.Context(), a, uuid.NewString(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		newPrinter(cmd)(markdown(s))
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("json", false, "Print the full search state as JSON")
	rootCmd.AddCommand(askCmd)
}
