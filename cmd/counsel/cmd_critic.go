package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/llm"
)

func newCriticCmd() *cobra.Command {
	var instruct string
	cmd := &cobra.Command{
		Use:   "critic <file>",
		Short: "Stream a code review of a Go source file from a local model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}

			ollama := config.LoadOllamaSettings()
			model := llm.NewOllamaClient(ollama.Endpoint, ollama.Model)
			critic := &llm.Critic{Model: model}

			fmt.Fprint(cmd.ErrOrStderr(), "Working...")
			chunks, err := critic.Review(cmd.Context(), string(content), instruct)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr())
				return err
			}

			first := true
			for chunk := range chunks {
				if first {
					fmt.Fprint(cmd.ErrOrStderr(), "\r           \r")
					first = false
				}
				fmt.Fprint(cmd.OutOrStdout(), chunk)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&instruct, "instruct", "", "Extra instructions for the critic")
	return cmd
}
