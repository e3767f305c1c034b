package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onceagainarise/repo-surfer/memory"
)

func memoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage conversation memory",
	}
	cmd.AddCommand(memorySearchCmd())
	cmd.AddCommand(memoryHistoryCmd())
	cmd.AddCommand(memoryClearCmd())
	return cmd
}

func memorySearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search conversation memory by similarity",
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

			matches, err := store.Search(cmd.Context(), args[0], limit)
			if err != nil {
				a.log.Warn().Err(err).Msg("memory search degraded")
			}
			if len(matches) == 0 {
				fmt.Println("No matching memories found.")
				return nil
			}

			fmt.Printf("Found %d matching memories:\n", len(matches))
			for i, match := range matches {
				fmt.Printf("\n--- Result %d (distance %.4f) ---\n", i+1, match.Distance)
				if query := match.Metadata[memory.MetaQuery]; query != "" {
					fmt.Printf("Query: %s\n", query)
				}
				fmt.Printf("Response: %s\n", match.Document)
				if ts := match.Metadata[memory.MetaTimestamp]; ts != "" {
					fmt.Printf("Timestamp: %s\n", ts)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "maximum number of results to return")
	return cmd
}

func memoryHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversation turns, newest first",
		Args:  cobra.NoArgs,
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

			turns, err := store.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(turns) == 0 {
				fmt.Println("No conversation history.")
				return nil
			}

			for _, turn := range turns {
				fmt.Printf("[%s]\nUser: %s\nAssistant: %s\n\n", turn.Timestamp, turn.Query, turn.Response)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum number of turns to show")
	return cmd
}

func memoryClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all conversation memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			if !yes && !confirm("Are you sure you want to clear all conversation memory? This cannot be undone.") {
				fmt.Println("Aborted.")
				return nil
			}

			store, err := a.memoryStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear conversation memory: %w", err)
			}
			fmt.Println("Successfully cleared conversation memory.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
