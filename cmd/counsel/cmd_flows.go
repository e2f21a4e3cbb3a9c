package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newFlowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flows",
		Short: "List available flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := buildManager()
			if err != nil {
				return err
			}
			configs, err := manager.List()
			if err != nil {
				return err
			}
			for _, cfg := range configs {
				cmd.Printf("%-8s v%-7s %s\n", cfg.Name, cfg.Version, cfg.Description)
				if len(cfg.Tags) > 0 {
					cmd.Printf("%-8s %8s tags: %s\n", "", "", strings.Join(cfg.Tags, ", "))
				}
				if len(cfg.Tools) > 0 {
					cmd.Printf("%-8s %8s tools: %s\n", "", "", strings.Join(cfg.Tools, ", "))
				}
			}
			return nil
		},
	}
}
