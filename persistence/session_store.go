// Package persistence records REPL sessions in SQLite and exports transcripts
// to Markdown files.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lexcodex/counsel/framework"
)

// Session is one recorded conversation.
type Session struct {
	ID        int64
	Flow      string
	StartedAt time.Time
	EndedAt   sql.NullTime
}

// Turn is a single stored message of a session.
type Turn struct {
	ID        int64
	SessionID int64
	Role      string
	Content   string
	ToolName  string
	CreatedAt time.Time
}

// SessionStore persists sessions and their turns in a SQLite database.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens/creates the database at dbPath.
func NewSessionStore(dbPath string) (*SessionStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}
	store := &SessionStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SessionStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		flow TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tool_name TEXT,
		tool_calls TEXT,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *SessionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginSession records the start of a conversation and returns its id.
func (s *SessionStore) BeginSession(ctx context.Context, flow string) (int64, error) {
	if flow == "" {
		return 0, errors.New("flow name required")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (flow, started_at) VALUES (?, ?)`,
		flow, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// EndSession stamps the end time of a session.
func (s *SessionStore) EndSession(ctx context.Context, sessionID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		time.Now().UTC(), sessionID)
	return err
}

// RecordTurn appends one message to a session.
func (s *SessionStore) RecordTurn(ctx context.Context, sessionID int64, msg framework.Message) error {
	var toolCalls any
	if len(msg.ToolCalls) > 0 {
		encoded, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return err
		}
		toolCalls = string(encoded)
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, role, content, tool_name, tool_calls, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, string(msg.Role), msg.Content, msg.Name, toolCalls, ts)
	return err
}

// Sessions lists recorded sessions, newest first.
func (s *SessionStore) Sessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, flow, started_at, ended_at FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Flow, &sess.StartedAt, &sess.EndedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Session fetches one session by id.
func (s *SessionStore) Session(ctx context.Context, sessionID int64) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, flow, started_at, ended_at FROM sessions WHERE id = ?`, sessionID)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.Flow, &sess.StartedAt, &sess.EndedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %d not found", sessionID)
		}
		return nil, err
	}
	return &sess, nil
}

// Turns returns the stored messages of one session in order.
func (s *SessionStore) Turns(ctx context.Context, sessionID int64) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, COALESCE(tool_name, ''), created_at
		 FROM turns WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Role, &turn.Content, &turn.ToolName, &turn.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
