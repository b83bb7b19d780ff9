package progress

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// Drivers for the two databases the progress table lives in
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var reTableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type repository struct {
	l        log.Logger
	db       *sqlx.DB
	selectQ  string
	insertQ  string
	tableRef string
}

// NewRepository initializes a new progress repository on top of an existing table. It works with both the postgres and
// the sqlite3 driver.
func NewRepository(l log.Logger, db *sqlx.DB, table string) (*repository, error) {
	if !reTableName.MatchString(table) {
		return nil, errors.Errorf("invalid table name %q", table)
	}
	return &repository{
		l:        l,
		db:       db,
		tableRef: table,
		selectQ:  db.Rebind(fmt.Sprintf("SELECT has_info_date FROM %s WHERE satellite = ? ORDER BY has_info_date DESC LIMIT 1", table)),
		insertQ:  fmt.Sprintf("INSERT INTO %s (satellite, has_info_date) VALUES (:satellite, :has_info_date)", table),
	}, nil
}

// LastDate returns the most recent date with data for a sensor
func (s *repository) LastDate(ctx context.Context, sensor string) (time.Time, bool, error) {
	var last time.Time
	if err := s.db.GetContext(ctx, &last, s.selectQ, sensor); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.Wrapf(err, "reading last date of %s", sensor)
	}
	// sqlite3 hands out the zero time for values it can't parse
	if last.IsZero() {
		return time.Time{}, false, errors.Errorf("malformed last date of %s", sensor)
	}
	return last.UTC(), true, nil
}

// AppendDate inserts a new progress record
func (s *repository) AppendDate(ctx context.Context, sensor string, date time.Time) error {
	r := Record{
		Sensor: sensor,
		Date:   date.UTC().Truncate(time.Second),
	}
	if _, err := s.db.NamedExecContext(ctx, s.insertQ, r); err != nil {
		return errors.Wrapf(err, "inserting date %s for %s", r.Date.Format(time.DateTime), sensor)
	}
	level.Debug(s.l).Log("msg", "progress record saved", "sensor", sensor, "date", r.Date.Format(time.DateTime), "table", s.tableRef)
	return nil
}

// Ping checks if the database is reachable
func (s *repository) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
