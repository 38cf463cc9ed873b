// Package store persists edge counts, predictions and scores of analysis
// runs in a SQLite database.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/evaluate"
	"github.com/ieee0824/syllabify-go/phonotactic"
	"github.com/ieee0824/syllabify-go/predict"
)

//go:embed migrations.sql
var migrationsSQL string

// Word-edge sides stored in edge_counts.
const (
	SideOnset = "onset"
	SideCoda  = "coda"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Open opens the database at path and runs the migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each connection would get its own in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NewRun records a new run and returns its id.
func NewRun(db DBExecutor, description string) (string, error) {
	id := uuid.NewString()
	if _, err := db.Exec(`INSERT INTO runs (id, description) VALUES (?, ?)`, id, description); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveTable stores the counts of t and, if m is not nil, their probabilities.
func SaveTable(db DBExecutor, runID, side string, t *phonotactic.Table, m *phonotactic.Model) error {
	if side != SideOnset && side != SideCoda {
		return fmt.Errorf("unknown side %q", side)
	}
	for _, c := range t.Clusters() {
		prob := 0.0
		if m != nil {
			prob = m.Prob(c)
		}
		_, err := db.Exec(`INSERT INTO edge_counts (run_id, side, cluster, length, count, prob)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, side, cluster)
			DO UPDATE SET count = excluded.count, prob = excluded.prob`,
			runID, side, c.Key(), len(c), t.Count(c), prob)
		if err != nil {
			return fmt.Errorf("save %s %s: %w", side, c, err)
		}
	}
	return nil
}

// LoadTable reads back the counts stored by SaveTable.
func LoadTable(db DBExecutor, runID, side string) (*phonotactic.Table, error) {
	rows, err := db.Query(`SELECT cluster, count FROM edge_counts WHERE run_id = ? AND side = ?`, runID, side)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := phonotactic.NewTable()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		t.Add(cluster.ParseCluster(key), n)
	}
	return t, rows.Err()
}

// SavePredictions stores every distribution of set under model.
func SavePredictions(db DBExecutor, runID, model string, set predict.Set) error {
	for _, k := range set.Keys() {
		d := set[k]
		for _, code := range d.Codes() {
			_, err := db.Exec(`INSERT INTO predictions (run_id, model, word, cluster, code, prob, normalized)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(run_id, model, word, cluster, code)
				DO UPDATE SET prob = excluded.prob, normalized = excluded.normalized`,
				runID, model, k.Word, k.Cluster, code.String(), d.Prob(code), d.Normalized)
			if err != nil {
				return fmt.Errorf("save prediction %s %s: %w", model, k.Cluster, err)
			}
		}
	}
	return nil
}

// LoadPredictions reads back the distributions stored for model.
func LoadPredictions(db DBExecutor, runID, model string) (predict.Set, error) {
	rows, err := db.Query(`SELECT word, cluster, code, prob, normalized FROM predictions
		WHERE run_id = ? AND model = ?`, runID, model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(predict.Set)
	for rows.Next() {
		var word, key, codeName string
		var prob float64
		var normalized bool
		if err := rows.Scan(&word, &key, &codeName, &prob, &normalized); err != nil {
			return nil, err
		}
		code, err := cluster.ParseCode(codeName)
		if err != nil {
			return nil, err
		}
		k := predict.Key{Word: word, Cluster: key}
		d, ok := set[k]
		if !ok {
			d = predict.Distribution{Cluster: cluster.ParseCluster(key), Probs: make(map[cluster.Code]float64)}
		}
		d.Probs[code] = prob
		d.Normalized = normalized
		set[k] = d
	}
	return set, rows.Err()
}

// SaveScore stores the evaluation report of model. An infinite
// log-likelihood is stored as NULL.
func SaveScore(db DBExecutor, runID, model string, r evaluate.Report) error {
	var ll sql.NullFloat64
	if !math.IsInf(r.LogLikelihood, 0) && !math.IsNaN(r.LogLikelihood) {
		ll = sql.NullFloat64{Float64: r.LogLikelihood, Valid: true}
	}
	_, err := db.Exec(`INSERT INTO scores (run_id, model, log_likelihood, responses, fallbacks, zero_events, skipped_unknown)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, model)
		DO UPDATE SET log_likelihood = excluded.log_likelihood, responses = excluded.responses,
			fallbacks = excluded.fallbacks, zero_events = excluded.zero_events,
			skipped_unknown = excluded.skipped_unknown`,
		runID, model, ll, r.Responses, r.Fallbacks, r.ZeroEvents, r.SkippedUnknown)
	if err != nil {
		return fmt.Errorf("save score %s: %w", model, err)
	}
	return nil
}

// LoadScores returns the reports stored for a run, keyed by model.
func LoadScores(db DBExecutor, runID string) (map[string]evaluate.Report, error) {
	rows, err := db.Query(`SELECT model, log_likelihood, responses, fallbacks, zero_events, skipped_unknown
		FROM scores WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]evaluate.Report)
	for rows.Next() {
		var model string
		var ll sql.NullFloat64
		var r evaluate.Report
		if err := rows.Scan(&model, &ll, &r.Responses, &r.Fallbacks, &r.ZeroEvents, &r.SkippedUnknown); err != nil {
			return nil, err
		}
		r.LogLikelihood = math.Inf(-1)
		if ll.Valid {
			r.LogLikelihood = ll.Float64
		}
		out[model] = r
	}
	return out, rows.Err()
}
