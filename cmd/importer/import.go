package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dewey/acquisition-worker/config"
	"github.com/dewey/acquisition-worker/progress"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jmoiron/sqlx"
	"github.com/peterbourgon/ff/v3"
	"github.com/pkg/errors"
)

// Imports progress records from a text file with one "<sensor>:<YYYY-MM-DD HH:MM:SS>" entry per line, e.g. to seed a
// fresh database with the last known dates of an old deployment.
func main() {
	fs := flag.NewFlagSet("importer", flag.ExitOnError)
	var (
		dbDriver      = fs.String("db-driver", "sqlite3", "the driver of the progress database, postgres or sqlite3")
		dbDSN         = fs.String("db-dsn", "acquisition-worker.db", "the data source name of the progress database")
		progressTable = fs.String("progress-table", config.DefaultProgressTable, "the table acquisition dates are recorded in")
		filePath      = fs.String("file", "progress_migrate", "the file to import")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("AW"))

	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = level.NewFilter(l, level.AllowInfo())
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	db, err := sqlx.Open(*dbDriver, *dbDSN)
	if err != nil {
		level.Error(l).Log("msg", "error opening database", "err", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		level.Error(l).Log("msg", "error pinging database", "err", err)
		return
	}
	pr, err := progress.NewRepository(l, db, *progressTable)
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}

	f, err := os.Open(*filePath)
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}
	defer f.Close()

	imported, err := importRecords(context.Background(), l, pr, f)
	if err != nil {
		level.Error(l).Log("msg", "error reading import file", "err", err)
	}
	level.Info(l).Log("msg", "import finished", "records", imported)
}

// importRecords appends every parseable line, broken lines are logged and skipped
func importRecords(ctx context.Context, l log.Logger, pr progress.Repository, r io.Reader) (int, error) {
	var imported int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			level.Error(l).Log("msg", "skipping line", "line", line, "err", err)
			continue
		}
		if err := pr.AppendDate(ctx, rec.Sensor, rec.Date); err != nil {
			level.Error(l).Log("msg", "error inserting row into db", "row", line, "err", err)
			continue
		}
		imported++
	}
	return imported, scanner.Err()
}

func parseLine(line string) (progress.Record, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return progress.Record{}, errors.New("expected <sensor>:<date>")
	}
	d, err := time.Parse(time.DateTime, strings.TrimSpace(parts[1]))
	if err != nil {
		d, err = time.Parse(time.DateOnly, strings.TrimSpace(parts[1]))
		if err != nil {
			return progress.Record{}, errors.Wrap(err, "parsing date")
		}
	}
	return progress.Record{Sensor: parts[0], Date: d}, nil
}
