// Package legacy rewrites document shapes written by earlier versions of the
// studio app into the current layout.
package legacy

import (
	"context"
	"fmt"
	"log/slog"

	"studio/internal/adapters/storage"
)

// Ownership moves: top-level collections that now live under members/<memberId>.
var memberScoped = []struct {
	from string
	to   string
}{
	{from: "assigned_packages", to: "assignedPackages"},
	{from: "assignedPackages", to: "assignedPackages"},
	{from: "payments", to: "payments"},
}

// Report counts what a migration run changed.
type Report struct {
	Moved    int // documents re-parented under their member
	Orphaned int // documents with no memberId, left untouched
	Conflict int // documents whose id already exists in the target collection
}

// Transactor runs fn in one database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Migrate re-parents legacy top-level documents under their member.
// Document bodies are not changed, so legacy fields such as lessonsRemaining survive.
// PRE: the document schema exists
// POST: All moves commit together; running twice is a no-op
func Migrate(ctx context.Context, db storage.SQLDB, tx Transactor) (Report, error) {
	var report Report
	err := tx.InTx(ctx, func(ctx context.Context) error {
		report = Report{}
		for _, m := range memberScoped {
			if err := migrateCollection(ctx, db, m.from, m.to, &report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	slog.Info("migration_event", "event", "legacy_migrated",
		"moved", report.Moved, "orphaned", report.Orphaned, "conflict", report.Conflict)
	return report, nil
}

type legacyDoc struct {
	id       string
	memberID string
}

func migrateCollection(ctx context.Context, db storage.SQLDB, from, to string, report *Report) error {
	conn := storage.Conn(ctx, db)
	rows, err := conn.QueryContext(ctx,
		`SELECT id, COALESCE(json_extract(data, '$.memberId'), '') FROM document WHERE collection = ? AND parent = ''`, from)
	if err != nil {
		return fmt.Errorf("scan %s: %w", from, err)
	}
	var docs []legacyDoc
	for rows.Next() {
		var d legacyDoc
		if err := rows.Scan(&d.id, &d.memberID); err != nil {
			rows.Close()
			return fmt.Errorf("scan %s: %w", from, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, d := range docs {
		if d.memberID == "" {
			report.Orphaned++
			slog.Warn("migration_event", "event", "legacy_orphan", "collection", from, "id", d.id)
			continue
		}
		if from != to {
			var n int
			if err := conn.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM document WHERE collection = ? AND id = ?`, to, d.id).Scan(&n); err != nil {
				return err
			}
			if n > 0 {
				report.Conflict++
				slog.Warn("migration_event", "event", "legacy_conflict", "collection", from, "id", d.id)
				continue
			}
		}
		if _, err := conn.ExecContext(ctx,
			`UPDATE document SET collection = ?, parent = ? WHERE collection = ? AND id = ?`,
			to, "members/"+d.memberID, from, d.id); err != nil {
			return fmt.Errorf("move %s/%s: %w", from, d.id, err)
		}
		report.Moved++
	}
	return nil
}
