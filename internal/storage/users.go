package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Roles the API layer understands. CreateUser falls back to RoleMember
// when the caller passes an empty role.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) CreateUser(username, passHash, role string) (int64, error) {
	if role == "" {
		role = RoleMember
	}
	res, err := db.conn.Exec(`INSERT INTO users(username, pass_hash, role, created_at) VALUES(?,?,?,?)`,
		username, passHash, role, nowUTC())
	if err != nil { return 0, err }
	return res.LastInsertId()
}

// GetUserByUsername returns the user plus the stored password hash so
// the login handler can verify credentials with a single query.
func (db *DB) GetUserByUsername(username string) (User, string, error) {
	row := db.conn.QueryRow(`SELECT id, username, role, created_at, pass_hash FROM users WHERE username=?`, username)
	var (
		u       User
		hash    string
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &created, &hash); err != nil {
		return User{}, "", err
	}
	u.CreatedAt = parseTS(created)
	return u, hash, nil
}

func (db *DB) CreateSession(userID int64, token string, expires time.Time) error {
	return execOne(db.conn, `INSERT INTO sessions(token, user_id, expires_at, created_at) VALUES(?,?,?,?)`,
		token, userID, expires.UTC().Format(time.RFC3339Nano), nowUTC())
}

// GetSession resolves a live session token to its user. Expired
// sessions look exactly like missing ones: sql.ErrNoRows.
func (db *DB) GetSession(token string) (User, error) {
	row := db.conn.QueryRow(`
SELECT u.id, u.username, u.role, u.created_at
FROM sessions s JOIN users u ON s.user_id=u.id
WHERE s.token=? AND s.expires_at > ?`, token, nowUTC())
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &created); err != nil {
		return User{}, err
	}
	u.CreatedAt = parseTS(created)
	return u, nil
}

func (db *DB) DeleteSession(token string) error {
	return execOne(db.conn, `DELETE FROM sessions WHERE token=?`, token)
}

// PurgeExpiredSessions deletes sessions past their expiry and reports
// how many went. The serve command runs it once at startup.
func (db *DB) PurgeExpiredSessions() (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, nowUTC())
	if err != nil { return 0, err }
	return res.RowsAffected()
}

func (db *DB) LogAudit(username, action, resource string, meta map[string]any) error {
	b, _ := json.Marshal(meta)
	_, err := db.conn.Exec(`INSERT INTO audit(ts, username, action, resource, meta_json) VALUES(?,?,?,?,?)`,
		nowUTC(), username, action, resource, string(b))
	return err
}

func nowUTC() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func parseTS(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func execOne(db *sql.DB, q string, args ...any) error {
	res, err := db.Exec(q, args...)
	if err != nil { return err }
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("no rows affected")
	}
	return nil
}
