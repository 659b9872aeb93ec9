/*
Package journal
File: sqlite.go
Description:
    Durable record of a session's captain's log and notifications.
    The engine keeps only the last few log lines in its state; the journal
    keeps all of them. It is a write-mostly sink, not a save file: nothing
    here is ever loaded back into a game.

    The file outlives a process. Every Open starts a new session id and
    queries only see rows written under it.
*/

package journal

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/everforgeworks/age-of-sail/internal/game"
)

// DB wraps a SQLite connection holding the journal.
type DB struct {
	conn    *sqlx.DB
	log     *slog.Logger
	session string
}

// LogRow is one stored log line.
type LogRow struct {
	ID      int64  `db:"id" json:"id"`
	Year    int    `db:"year" json:"year"`
	Month   int    `db:"month" json:"month"`
	Message string `db:"message" json:"message"`
	At      int64  `db:"at" json:"at"` // Unix milliseconds
}

// Entry converts the row back to an engine log entry.
func (r LogRow) Entry() game.LogEntry {
	return game.LogEntry{
		Date:    game.Date{Year: r.Year, Month: r.Month},
		Message: r.Message,
		Time:    time.UnixMilli(r.At),
	}
}

// NotificationRow is one stored notification.
type NotificationRow struct {
	ID       int64  `db:"id" json:"id"`
	Session  string `db:"session" json:"-"`
	Kind     string `db:"kind" json:"kind"`
	Severity string `db:"severity" json:"severity"`
	Title    string `db:"title" json:"title"`
	Message  string `db:"message" json:"message"`
	Year     int    `db:"year" json:"year"`
	Month    int    `db:"month" json:"month"`
	At       int64  `db:"at" json:"at"`
}

// Event converts the row back to an engine notification.
func (r NotificationRow) Event() game.Event {
	return game.Event{
		Kind:     game.EventKind(r.Kind),
		Severity: game.Severity(r.Severity),
		Title:    r.Title,
		Message:  r.Message,
		Date:     game.Date{Year: r.Year, Month: r.Month},
		Time:     time.UnixMilli(r.At),
	}
}

// Open opens or creates a journal database at the given path.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, log: logger, session: uuid.NewString()}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	logger.Debug("journal session opened", "path", path, "session", db.session)
	return db, nil
}

// Session returns the id every row written through this handle carries.
func (db *DB) Session() string {
	return db.session
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS log_lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		message TEXT NOT NULL,
		at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		at INTEGER NOT NULL
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	// Journals written before sessions existed lack the column.
	for _, table := range []string{"log_lines", "notifications"} {
		var n int
		err := db.conn.Get(&n, "SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = 'session'", table)
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := db.conn.Exec("ALTER TABLE " + table + " ADD COLUMN session TEXT NOT NULL DEFAULT ''"); err != nil {
				return err
			}
		}
	}

	_, err := db.conn.Exec(`
	CREATE INDEX IF NOT EXISTS idx_log_lines_session ON log_lines(session, id);
	CREATE INDEX IF NOT EXISTS idx_notifications_session_kind ON notifications(session, kind);
	`)
	return err
}

// AppendLog stores one log line.
func (db *DB) AppendLog(e game.LogEntry) error {
	_, err := db.conn.Exec(
		"INSERT INTO log_lines (session, year, month, message, at) VALUES (?, ?, ?, ?, ?)",
		db.session, e.Date.Year, e.Date.Month, e.Message, e.Time.UnixMilli(),
	)
	return err
}

// AppendNotification stores one notification.
func (db *DB) AppendNotification(e game.Event) error {
	_, err := db.conn.NamedExec(
		`INSERT INTO notifications (session, kind, severity, title, message, year, month, at)
		 VALUES (:session, :kind, :severity, :title, :message, :year, :month, :at)`,
		NotificationRow{
			Session:  db.session,
			Kind:     string(e.Kind),
			Severity: string(e.Severity),
			Title:    e.Title,
			Message:  e.Message,
			Year:     e.Date.Year,
			Month:    e.Date.Month,
			At:       e.Time.UnixMilli(),
		},
	)
	return err
}

// Log implements game.Sink. Write failures are logged, never returned to
// the engine.
func (db *DB) Log(e game.LogEntry) {
	if err := db.AppendLog(e); err != nil {
		db.log.Error("journal log write failed", "error", err)
	}
}

// Notify implements game.Sink.
func (db *DB) Notify(e game.Event) {
	if err := db.AppendNotification(e); err != nil {
		db.log.Error("journal notification write failed", "kind", e.Kind, "error", err)
	}
}

// RecentLogs returns the session's most recent limit log lines, oldest first.
func (db *DB) RecentLogs(limit int) ([]LogRow, error) {
	var rows []LogRow
	err := db.conn.Select(&rows,
		"SELECT id, year, month, message, at FROM log_lines WHERE session = ? ORDER BY id DESC LIMIT ?",
		db.session, limit,
	)
	if err != nil {
		return nil, err
	}
	slices.Reverse(rows)
	return rows, nil
}

// RecentEntries is RecentLogs converted to engine log entries.
func (db *DB) RecentEntries(limit int) ([]game.LogEntry, error) {
	rows, err := db.RecentLogs(limit)
	if err != nil {
		return nil, err
	}
	out := make([]game.LogEntry, len(rows))
	for i, r := range rows {
		out[i] = r.Entry()
	}
	return out, nil
}

// Notifications returns the session's notifications in insertion order. An
// empty kind returns every kind.
func (db *DB) Notifications(kind game.EventKind) ([]NotificationRow, error) {
	var rows []NotificationRow
	q := "SELECT id, session, kind, severity, title, message, year, month, at FROM notifications WHERE session = ?"
	args := []any{db.session}
	if kind != "" {
		q += " AND kind = ?"
		args = append(args, string(kind))
	}
	err := db.conn.Select(&rows, q+" ORDER BY id", args...)
	return rows, err
}

// CountLogs returns how many log lines the session has written.
func (db *DB) CountLogs() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM log_lines WHERE session = ?", db.session)
	return n, err
}
