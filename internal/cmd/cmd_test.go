package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/presets"
	"github.com/cheerioskun/teesheet/internal/utils"
)

// resetFlags puts every flag of the tree back to its default between runs
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate points HOME, the log file and the working directory at a temp dir
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TEESHEET_LOG_FILE", filepath.Join(home, "teesheet.log"))
	t.Setenv("TEESHEET_TIMEZONE", "UTC")
	t.Chdir(home)
	t.Cleanup(func() { utils.SetLogger(utils.NewNopLogger()) })
}

// run executes the command tree and returns everything it printed
func run(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// execute runs one command in a fresh isolated home
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)
	return run(args...)
}

func TestResolveRules(t *testing.T) {
	store := presets.NewStore(presets.NewFileBackend(afero.NewMemMapFs(), "/presets"), utils.NewNopLogger())
	ctx := context.Background()

	tests := []struct {
		name      string
		preset    string
		slots     []string
		wantRules int
		wantErr   string
	}{
		{name: "preset", preset: "weekend", wantRules: 2},
		{name: "slots", slots: []string{"07:00-09:00/10", "09:00-10:00/15"}, wantRules: 2},
		{name: "both", preset: "weekday", slots: []string{"07:00-09:00/10"}, wantErr: "not both"},
		{name: "neither", wantErr: "no rules given"},
		{name: "unknown preset", preset: "nope", wantErr: "not found"},
		{name: "invalid slot", slots: []string{"09:00-07:00/10"}, wantErr: "must be before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := resolveRules(ctx, store, tt.preset, tt.slots)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rules) != tt.wantRules {
				t.Fatalf("rules = %d, want %d", len(rules), tt.wantRules)
			}
		})
	}
}

func TestParseDateFlags(t *testing.T) {
	start, end, err := parseDateFlags("2026-05-01", "", time.UTC)
	if err != nil || start != end || start.String() != "2026-05-01" {
		t.Fatalf("got %s %s %v", start, end, err)
	}
	if _, _, err := parseDateFlags("05/01/2026", "", time.UTC); err == nil {
		t.Fatalf("expected an error for a malformed --from")
	}
}

func TestPresetsCommands(t *testing.T) {
	isolate(t)

	out, err := run("presets", "save", "Twilight", "--slot", "17:00-19:00/12")
	if err != nil {
		t.Fatalf("save: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Saved preset Twilight as twilight (1 rules, 10 tee times per day)") {
		t.Fatalf("unexpected save output:\n%s", out)
	}

	out, err = run("presets", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"weekday", "weekend", "tournament", "twilight"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list missing %q:\n%s", want, out)
		}
	}

	out, err = run("presets", "show", "twilight")
	if err != nil || !strings.Contains(out, "17:00-19:00/12") {
		t.Fatalf("show: %v\n%s", err, out)
	}

	if _, err := run("presets", "delete", "weekday"); err == nil || !strings.Contains(err.Error(), "built-in") {
		t.Fatalf("expected built-in delete to fail, got %v", err)
	}
	out, err = run("presets", "delete", "twilight")
	if err != nil || !strings.Contains(out, "Deleted preset twilight") {
		t.Fatalf("delete: %v\n%s", err, out)
	}
	if _, err := run("presets", "show", "twilight"); err == nil {
		t.Fatalf("expected deleted preset to be gone")
	}
}

func TestPreviewCommand(t *testing.T) {
	out, err := execute(t, "preview",
		"--slot", "07:00-09:00/10", "--slot", "08:30-10:00/15",
		"--from", "2026-05-01", "--to", "2026-05-03")
	if err != nil {
		t.Fatalf("preview: %v\n%s", err, out)
	}
	for _, want := range []string{"! 1. 07:00-09:00/10", "12 tee times", "overlapping rules 1-2", "Per day: 18", "(3 days): 54"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateDryRun(t *testing.T) {
	out, err := execute(t, "generate", "--from", "2026-05-02", "--slot", "07:00-08:00/30", "--capacity", "2", "--dry-run")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	for _, want := range []string{"2026-05-02 07:00 UTC  Main Course  2 players", "2026-05-02 07:30 UTC", "2 tee times would be created"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateRejectsInvalidCapacity(t *testing.T) {
	_, err := execute(t, "generate", "--from", "2026-05-02", "--slot", "07:00-08:00/30", "--capacity", "5", "--dry-run")
	if err == nil || !strings.Contains(err.Error(), "between 1 and 4") {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestGenerateAgainstAPI(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/teetimes/" {
			http.NotFound(w, r)
			return
		}
		if calls.Add(1) == 2 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"duplicate tee time"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": calls.Load()})
	}))
	defer srv.Close()

	out, err := execute(t, "generate", "--api-url", srv.URL, "--from", "2026-05-02", "--slot", "07:00-08:00/20")
	if err == nil || !strings.Contains(err.Error(), "1 of 3 tee times failed") {
		t.Fatalf("expected partial failure error, got %v", err)
	}
	for _, want := range []string{"Created 2 of 3 tee times, 1 failed", "2026-05-02 07:20  duplicate tee time (400)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTeeTimesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ordering") != "start_time" {
			t.Errorf("ordering = %q", r.URL.Query().Get("ordering"))
		}
		w.Write([]byte(`[{"id":7,"start_time":"2026-05-02T07:00:00Z","course_section":"Main Course","available_slots":4}]`))
	}))
	defer srv.Close()

	out, err := execute(t, "teetimes", "list", "--api-url", srv.URL)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "ID") || !strings.Contains(out, "2026-05-02 07:00") || !strings.Contains(out, "Main Course") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestGenerateRequiresFrom(t *testing.T) {
	_, err := execute(t, "generate", "--slot", "07:00-08:00/30", "--dry-run")
	if err == nil || !strings.Contains(err.Error(), `"from"`) {
		t.Fatalf("expected missing --from error, got %v", err)
	}
}

// recorder is a fake booking API that remembers every write it receives
type recorder struct {
	mu     sync.Mutex
	writes []string
	bodies []map[string]any
}

func (rec *recorder) record(r *http.Request) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.writes = append(rec.writes, r.Method+" "+r.URL.Path)
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	rec.bodies = append(rec.bodies, body)
}

func (rec *recorder) last() (string, map[string]any) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.writes) == 0 {
		return "", nil
	}
	return rec.writes[len(rec.writes)-1], rec.bodies[len(rec.bodies)-1]
}

const teeTime12 = `{"id":12,"start_time":"2026-05-02T07:00:00Z","course_section":"Main Course","available_slots":2}`

func newBookingAPI(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/", http.NotFound)
	mux.HandleFunc("GET /api/teetimes/12/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teeTime12))
	})
	mux.HandleFunc("POST /api/teetimes/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":13,"start_time":"2026-05-02T07:10:00Z","course_section":"Back Nine","available_slots":2}`))
	})
	mux.HandleFunc("PUT /api/teetimes/12/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Write([]byte(`{"id":12,"start_time":"2026-05-02T07:00:00Z","course_section":"Main Course","available_slots":3}`))
	})
	mux.HandleFunc("GET /api/golfers/4/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":4,"name":"Sam Snead","email":"sam@example.com","phone":"555-0100"}`))
	})
	mux.HandleFunc("POST /api/golfers/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"name":"Patty Berg","email":"patty@example.com"}`))
	})
	mux.HandleFunc("PUT /api/golfers/4/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Write([]byte(`{"id":4,"name":"Sam Snead","email":"sam@example.com","phone":"555-0199"}`))
	})
	mux.HandleFunc("DELETE /api/golfers/4/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/bookings/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":30,"tee_time":12,"golfer":4,"number_of_players":2}`))
	})
	mux.HandleFunc("DELETE /api/bookings/30/", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestTeeTimesCommands(t *testing.T) {
	srv, rec := newBookingAPI(t)
	isolate(t)

	out, err := run("teetimes", "show", "12", "--api-url", srv.URL)
	if err != nil || !strings.Contains(out, "2026-05-02 07:00 UTC") || !strings.Contains(out, "Available slots:  2") {
		t.Fatalf("show: %v\n%s", err, out)
	}

	if _, err := run("teetimes", "show", "99", "--api-url", srv.URL); err == nil || !strings.Contains(err.Error(), "tee time 99 does not exist") {
		t.Fatalf("expected not found, got %v", err)
	}

	out, err = run("teetimes", "create", "--api-url", srv.URL, "--start", "2026-05-02 07:10", "--section", "Back Nine", "--capacity", "2")
	if err != nil || !strings.Contains(out, "Created tee time 13 at 2026-05-02 07:10") {
		t.Fatalf("create: %v\n%s", err, out)
	}
	write, body := rec.last()
	if write != "POST /api/teetimes/" || body["start_time"] != "2026-05-02T07:10:00Z" || body["course_section"] != "Back Nine" || body["available_slots"] != float64(2) {
		t.Fatalf("unexpected create %s %v", write, body)
	}

	out, err = run("teetimes", "update", "12", "--api-url", srv.URL, "--capacity", "3")
	if err != nil || !strings.Contains(out, "Available slots:  3") {
		t.Fatalf("update: %v\n%s", err, out)
	}
	write, body = rec.last()
	if write != "PUT /api/teetimes/12/" || body["start_time"] != "2026-05-02T07:00:00Z" || body["course_section"] != "Main Course" || body["available_slots"] != float64(3) {
		t.Fatalf("unexpected update %s %v", write, body)
	}
}

func TestTeeTimesRejectBadInput(t *testing.T) {
	srv, rec := newBookingAPI(t)
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad start", args: []string{"teetimes", "create", "--start", "May 2 7am"}, want: "must look like"},
		{name: "capacity", args: []string{"teetimes", "create", "--start", "2026-05-02 07:10", "--capacity", "5"}, want: "between 1 and 4"},
		{name: "nothing to update", args: []string{"teetimes", "update", "12"}, want: "nothing to update"},
		{name: "bad id", args: []string{"teetimes", "delete", "abc"}, want: "invalid tee time id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(append(tt.args, "--api-url", srv.URL)...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
	if write, _ := rec.last(); write != "" {
		t.Fatalf("invalid input reached the API: %s", write)
	}
}

func TestGolfersCommands(t *testing.T) {
	srv, rec := newBookingAPI(t)
	isolate(t)

	out, err := run("golfers", "add", "--api-url", srv.URL, "--name", "Patty Berg", "--email", "patty@example.com")
	if err != nil || !strings.Contains(out, "Added golfer 5: Patty Berg <patty@example.com>") {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if _, body := rec.last(); body["name"] != "Patty Berg" || body["id"] != nil {
		t.Fatalf("unexpected add body %v", body)
	}

	if _, err := run("golfers", "add", "--api-url", srv.URL, "--name", "No Email"); !models.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	out, err = run("golfers", "show", "4", "--api-url", srv.URL)
	if err != nil || !strings.Contains(out, "Sam Snead") || !strings.Contains(out, "555-0100") {
		t.Fatalf("show: %v\n%s", err, out)
	}

	out, err = run("golfers", "edit", "4", "--api-url", srv.URL, "--phone", "555-0199")
	if err != nil || !strings.Contains(out, "555-0199") {
		t.Fatalf("edit: %v\n%s", err, out)
	}
	write, body := rec.last()
	if write != "PUT /api/golfers/4/" || body["name"] != "Sam Snead" || body["email"] != "sam@example.com" || body["phone"] != "555-0199" {
		t.Fatalf("unexpected edit %s %v", write, body)
	}

	out, err = run("golfers", "delete", "4", "--api-url", srv.URL)
	if err != nil || !strings.Contains(out, "Deleted golfer 4") {
		t.Fatalf("delete: %v\n%s", err, out)
	}
}

func TestBookingsCreateChecksAvailableSlots(t *testing.T) {
	srv, rec := newBookingAPI(t)
	isolate(t)

	_, err := run("bookings", "create", "--api-url", srv.URL, "--tee-time", "12", "--golfer", "4", "--players", "3")
	if err == nil || !strings.Contains(err.Error(), "only 2 slots left") {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if write, _ := rec.last(); write != "" {
		t.Fatalf("oversized booking reached the API: %s", write)
	}

	out, err := run("bookings", "create", "--api-url", srv.URL, "--tee-time", "12", "--golfer", "4", "--players", "2")
	if err != nil || !strings.Contains(out, "Booked 2 players on 2026-05-02 07:00 (booking 30)") {
		t.Fatalf("create: %v\n%s", err, out)
	}
	write, body := rec.last()
	if write != "POST /api/bookings/" || body["tee_time"] != float64(12) || body["golfer"] != float64(4) || body["number_of_players"] != float64(2) {
		t.Fatalf("unexpected booking %s %v", write, body)
	}

	out, err = run("bookings", "delete", "30", "--api-url", srv.URL)
	if err != nil || !strings.Contains(out, "Cancelled booking 30") {
		t.Fatalf("delete: %v\n%s", err, out)
	}
}
