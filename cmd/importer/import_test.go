package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dewey/acquisition-worker/progress"
	"github.com/go-kit/log"
)

type recordingProgress struct {
	records []progress.Record
}

func (r *recordingProgress) LastDate(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func (r *recordingProgress) AppendDate(_ context.Context, sensor string, date time.Time) error {
	r.records = append(r.records, progress.Record{Sensor: sensor, Date: date})
	return nil
}

func (r *recordingProgress) Ping(context.Context) error { return nil }

var lineTests = []struct {
	line    string
	sensor  string
	date    time.Time
	wantErr bool
}{
	{"Landsat-8:2024-03-05 00:00:00", "Landsat-8", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
	{"Landsat-9:2024-03-05 13:14:15", "Landsat-9", time.Date(2024, 3, 5, 13, 14, 15, 0, time.UTC), false},
	{"Landsat-9:2024-03-07", "Landsat-9", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), false},
	{"Landsat-9", "", time.Time{}, true},
	{":2024-03-05", "", time.Time{}, true},
	{"Landsat-9:yesterday", "", time.Time{}, true},
}

func TestParseLine(t *testing.T) {
	for _, tt := range lineTests {
		t.Run(tt.line, func(t *testing.T) {
			rec, err := parseLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, wantErr %t", err, tt.wantErr)
			}
			if rec.Sensor != tt.sensor || !rec.Date.Equal(tt.date) {
				t.Errorf("got %+v", rec)
			}
		})
	}
}

func TestImportRecords(t *testing.T) {
	in := "Landsat-8:2024-03-05 00:00:00\n\nbroken\nLandsat-9:2024-03-06 00:00:00\n"
	pr := &recordingProgress{}
	n, err := importRecords(context.Background(), log.NewNopLogger(), pr, strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(pr.records) != 2 {
		t.Errorf("got %d imported, %d records, want 2", n, len(pr.records))
	}
}
