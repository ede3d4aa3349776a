// Package analytics records privacy-conscious visit and interaction counts
// and serves them on a small admin dashboard.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Interaction kinds recorded by the dashboard handlers.
const (
	KindBoost  = "boost"
	KindLog    = "log"
	KindSelect = "select"
)

// Visitor is one tracked page view, stored with a hashed IP.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type KindCount struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

type Stats struct {
	TotalVisitors     int64          `json:"total_visitors"`
	UniqueVisitors    int64          `json:"unique_visitors"`
	VisitorsToday     int64          `json:"visitors_today"`
	VisitorsThisWeek  int64          `json:"visitors_this_week"`
	TotalInteractions int64          `json:"total_interactions"`
	ByKind            []KindCount    `json:"by_kind"`
	TopBoosted        []SubjectCount `json:"top_boosted"`
	RecentVisitors    []Visitor      `json:"recent_visitors"`
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_ts ON visitors(ts);
CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	subject TEXT NOT NULL,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_kind ON interactions(kind);
`

// Tracker writes analytics rows to SQLite.
type Tracker struct {
	db     *sql.DB
	salt   string
	now    func() time.Time
	logger *zap.Logger
}

// Open connects to dsn and creates the schema. The default DSN ":memory:"
// keeps analytics in process memory only.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Tracker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create analytics schema: %w", err)
	}

	salt, err := randomToken()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Privacy: visitor tracking enabled with hashed IP addresses")
	return &Tracker{db: db, salt: salt, now: time.Now, logger: logger}, nil
}

func (t *Tracker) Close() error {
	return t.db.Close()
}

// HashIP returns a salted, truncated hash so raw addresses are never stored.
func (t *Tracker) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (t *Tracker) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		t.HashIP(ip), userAgent, path, t.now().Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordInteraction stores one dashboard event, e.g. a boost of "Python".
func (t *Tracker) RecordInteraction(ctx context.Context, kind, subject string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO interactions (kind, subject, ts) VALUES (?, ?, ?)`,
		kind, subject, t.now().Unix())
	if err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

// Cleanup deletes rows older than retention and returns how many visitor
// rows went away.
func (t *Tracker) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := t.now().Add(-retention).Unix()

	res, err := t.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	if _, err := t.db.ExecContext(ctx, `DELETE FROM interactions WHERE ts < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("cleanup interactions: %w", err)
	}

	removed, _ := res.RowsAffected()
	if removed > 0 {
		t.logger.Info("Privacy cleanup removed old visitor records", zap.Int64("removed", removed))
	}
	return removed, nil
}

// Stats aggregates everything shown on the admin dashboard.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
	weekAgo := now.Add(-7 * 24 * time.Hour).Unix()

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{startOfDay}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{weekAgo}},
		{&stats.TotalInteractions, `SELECT COUNT(*) FROM interactions`, nil},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.ByKind, err = t.kindCounts(ctx); err != nil {
		return nil, err
	}
	if stats.TopBoosted, err = t.topSubjects(ctx, KindBoost, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = t.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (t *Tracker) kindCounts(ctx context.Context) ([]KindCount, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM interactions GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("stats by kind: %w", err)
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}

func (t *Tracker) topSubjects(ctx context.Context, kind string, limit int) ([]SubjectCount, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT subject, COUNT(*) AS n FROM interactions
		WHERE kind = ?
		GROUP BY subject
		ORDER BY n DESC, subject ASC
		LIMIT ?`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("top subjects: %w", err)
	}
	defer rows.Close()

	var out []SubjectCount
	for rows.Next() {
		var sc SubjectCount
		if err := rows.Scan(&sc.Subject, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan subject count: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// RecentVisitors returns the newest visits first.
func (t *Tracker) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// untrackedPrefixes are never recorded as visits.
var untrackedPrefixes = []string{"/static/", "/admin", "/favicon", "/healthz"}

// Middleware records page views. Static assets, admin pages and requests
// carrying DNT: 1 are skipped.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || untracked(c.Request.URL.Path) {
			c.Next()
			return
		}

		if err := t.RecordVisit(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path); err != nil {
			t.logger.Warn("Error recording visitor", zap.Error(err))
		}
		c.Next()
	}
}

func untracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
