package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lexcodex/counsel/app/tui"
	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/flows"
	"github.com/lexcodex/counsel/framework"
	"github.com/lexcodex/counsel/persistence"
	"github.com/lexcodex/counsel/tools"
)

var (
	flagVerbose    bool
	flagQuiet      bool
	flagFlow       string
	flagMessage    string
	flagConfigsDir string
	flagWorkspace  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "counsel",
		Short: "LLM flows for simple everyday tasks",
		Long: "Counsel is a hobby CLI for chatting with and dispatching tasks to\n" +
			"LLM backends. Flows are YAML-configured conversations; agent flows\n" +
			"may call tools mid-conversation.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagVerbose && flagQuiet {
				return errors.New("cannot use both --verbose and --quiet flags")
			}
			setupLogging()
			return nil
		},
		RunE: runChat,
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only show warnings and errors")
	root.PersistentFlags().StringVar(&flagConfigsDir, "configs", "configs", "Directory with flow YAML configs")
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "Workspace root used by agent tools")

	root.Flags().StringVarP(&flagFlow, "flow", "f", string(config.FlowChat), "Select flow type")
	root.Flags().StringVarP(&flagMessage, "message", "m", "", "Write initial message for the flow")

	root.AddCommand(newCriticCmd(), newFlowsCmd(), newHistoryCmd())
	return root
}

func setupLogging() {
	level := zerolog.InfoLevel
	switch {
	case flagQuiet:
		level = zerolog.WarnLevel
	case flagVerbose:
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// runChat starts the interactive chat, or answers a single message when -m is
// given.
func runChat(cmd *cobra.Command, args []string) error {
	manager, err := buildManager()
	if err != nil {
		return err
	}

	if strings.TrimSpace(flagMessage) != "" {
		flow, err := manager.Open(flagFlow)
		if err != nil {
			return err
		}
		answer, err := flow.Run(cmd.Context(), framework.NewState(), flagMessage)
		if err != nil {
			return err
		}
		cmd.Printf("\nLLM Answer:\n\n%s\n", answer)
		return nil
	}

	store, err := openSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return tui.Run(cmd.Context(), tui.Options{
		Manager:   manager,
		FlowName:  flagFlow,
		Store:     store,
		ExportDir: flagWorkspace,
	})
}

func buildManager() (*flows.Manager, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	loader := config.NewLoader(flagConfigsDir)
	registry := tools.BuildRegistry(flagWorkspace)
	return flows.NewManager(loader, settings, registry), nil
}

func openSessionStore() (*persistence.SessionStore, error) {
	dir := filepath.Join(flagWorkspace, ".counsel")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return persistence.NewSessionStore(filepath.Join(dir, "sessions.db"))
}
