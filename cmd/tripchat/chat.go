package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long:  `Start an interactive conversation. Type /reset to start over and /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		threadID := uuid.NewString()
		show := newPrinter(cmd)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Trip assistant (thread %s). Where would you like to go?\n", threadID)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())

			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/reset":
				if err := a.Store.Clear(ctx, threadID); err != nil {
					return err
				}
				threadID = uuid.NewString()
				fmt.Fprintf(out, "Started a new conversation (thread %s).\n", threadID)
				continue
			}

			s, err := turn(ctx, a, threadID, line)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			show(markdown(s))
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
