package main

import (
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var splitTests = []struct {
	in  string
	out []string
}{
	{"Landsat-8,Landsat-9", []string{"Landsat-8", "Landsat-9"}},
	{" Landsat-8 , Sentinel-2A ,", []string{"Landsat-8", "Sentinel-2A"}},
	{"", nil},
}

func TestSplitList(t *testing.T) {
	for _, tt := range splitTests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.out) {
				t.Errorf("got %v, want %v", got, tt.out)
			}
		})
	}
}

func TestMaxBytesHandler(t *testing.T) {
	h := &maxBytesHandler{n: 8, h: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 16)
		if _, err := r.Body.Read(b); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}
	})}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(strings.Repeat("x", 32))))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("got %d, want body to be capped", rec.Code)
	}
}

func newFlagSet() (*flag.FlagSet, *time.Duration) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("config", "", "")
	return fs, fs.Duration("sweep-interval", 3*time.Hour, "")
}

func TestParseFlagsEnv(t *testing.T) {
	var tests = []struct {
		env     string
		want    time.Duration
		wantErr bool
	}{
		{"90m", 90 * time.Minute, false},
		{"3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("AW_SWEEP_INTERVAL", tt.env)
			fs, interval := newFlagSet()
			err := parseFlags(fs, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, wantErr %t", err, tt.wantErr)
			}
			if !tt.wantErr && *interval != tt.want {
				t.Errorf("got %s, want %s", *interval, tt.want)
			}
		})
	}
}

func TestParseFlagsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acquisitiond.conf")
	if err := os.WriteFile(path, []byte("sweep-interval 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, _ := newFlagSet()
	if err := parseFlags(fs, []string{"-config", path}); err == nil {
		t.Errorf("expected an error for an invalid config file value")
	}
}
