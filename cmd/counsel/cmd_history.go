package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lexcodex/counsel/framework"
	"github.com/lexcodex/counsel/persistence"
)

func newHistoryCmd() *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded chat sessions",
	}
	history.AddCommand(newHistoryListCmd(), newHistoryExportCmd())
	return history
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.Sessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				cmd.Println("no sessions recorded yet")
				return nil
			}
			for _, sess := range sessions {
				end := "open"
				if sess.EndedAt.Valid {
					end = sess.EndedAt.Time.Format("2006-01-02 15:04")
				}
				cmd.Printf("%4d  %-8s %s .. %s\n",
					sess.ID, sess.Flow,
					sess.StartedAt.Format("2006-01-02 15:04"), end)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to list")
	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a recorded session to a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Session(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			turns, err := store.Turns(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			messages := make([]framework.Message, 0, len(turns))
			for _, turn := range turns {
				messages = append(messages, framework.Message{
					Role:      framework.Role(turn.Role),
					Content:   turn.Content,
					Name:      turn.ToolName,
					Timestamp: turn.CreatedAt,
				})
			}

			path, err := persistence.SaveTranscript(flagWorkspace, sess.Flow, messages)
			if err != nil {
				return err
			}
			cmd.Println("saved to", path)
			return nil
		},
	}
}
