package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [file]",
		Short: "Explain a file's contents using the LLM",
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

			explanation, err := assistant.ExplainFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Explanation for %s:\n\n%s\n", filepath.Base(args[0]), explanation)
			return nil
		},
	}
}
