package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the AI about the repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			store, err := a.memoryStore()
			if err != nil {
				return err
			}
			defer store.Close()

			assistant, err := a.assistant(store)
			if err != nil {
				return err
			}

			response, err := assistant.Chat(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("AI:\n%s\n", response)
			return nil
		},
	}
}
