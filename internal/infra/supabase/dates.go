package supabase

import "time"

// PostgREST serves `date` columns as YYYY-MM-DD and `timestamptz` columns as
// RFC3339. Civil dates are parsed permissively because seeded rows sometimes
// carry full timestamps.

const civilDate = "2006-01-02"

func parseDate(s string) time.Time {
	t, err := time.Parse(civilDate, s)
	if err == nil {
		return t
	}
	t, _ = time.Parse(time.RFC3339, s)
	return t
}

func fmtDate(t time.Time) string {
	return t.Format(civilDate)
}
