package postgres

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// After is the SQL expression for the database clock advanced by d.
func After(d time.Duration) sq.Sqlizer {
	return sq.Expr("now() + make_interval(secs => ?)", d.Seconds())
}

// LeaseDue builds an UPDATE that claims up to limit due rows of a retry
// table and returns them. A due row has next_retry_at in the past and
// attempts left. Claimed rows get next_retry_at pushed out by lease, so a
// claimer that dies releases them when the lease lapses. Rows locked by a
// concurrent claim are skipped instead of waited on.
func LeaseDue(table string, limit int, lease time.Duration, returning []string) (string, []any, error) {
	due, dueArgs, err := sq.Select("id").
		From(table).
		Where("next_retry_at <= now()").
		Where("retry_count < max_retries").
		OrderBy("next_retry_at", "id").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return "", nil, err
	}

	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update(table).
		Set("next_retry_at", After(lease)).
		Where("id IN ("+due+")", dueArgs...).
		Suffix("RETURNING " + strings.Join(returning, ", ")).
		ToSql()
}

// Reschedule builds an UPDATE recording a failed attempt on row id: the
// attempt counter is bumped in place and the row becomes due after backoff.
func Reschedule(table string, id int64, lastError string, backoff time.Duration) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update(table).
		Set("retry_count", sq.Expr("retry_count + 1")).
		Set("last_error", lastError).
		Set("next_retry_at", After(backoff)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
}
