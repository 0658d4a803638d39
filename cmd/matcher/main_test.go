package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/talent-matching/internal/persistence"
	"github.com/example/talent-matching/internal/persistence/sqlite"
	"github.com/example/talent-matching/internal/testfixtures"
)

const seedYAML = `companies:
  - id: acme
    name: Acme Software
    sector: IT Services
    email: jobs@acme.example.com
    secret: s3cret
    offers:
      - type: internship
        title: Web Developer Internship
        description: java, web
        expires_at: "2025-06-30"
        duration_months: 6
        domain: Web Development
        applicants: ["10000001"]
      - type: alternance
        title: Platform Apprenticeship
        description: Cloud tooling
        duration_months: 24
        rhythm: 1 week/1 week
      - type: thesis
        title: Search Thesis
        description: Ranking
        subject: Learning to rank
        technologies: Go
    wishlist: ["20000001"]
candidates:
  - id: "10000001"
    kind: student
    name: Ada
    surname: Lovelace
    email: 10000001@students.example.com
    secret: s3cret
    level: bachelor
    field: computing
    institution: Paris Cite
  - id: "20000001"
    kind: alumnus
    name: Alan
    surname: Turing
    email: 20000001@alumni.example.com
    graduation_year: 2020
    job_title: Developer
    employer: Initech
`

type cliHarness struct {
	dir    string
	dbPath string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "matching.db")
	t.Setenv("MATCHING_SQLITE_DSN", dbPath)
	t.Setenv("MATCHING_LOG_LEVEL", "error")
	return &cliHarness{dir: dir, dbPath: dbPath}
}

func (h *cliHarness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := newCLI(io.NopCloser(strings.NewReader("")), &out, &errOut)
	c.loadDotEnv = false
	c.secretHash = testfixtures.FastArgon2idParams
	c.now = func() time.Time { return testfixtures.ReferenceTime() }

	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func (h *cliHarness) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func (h *cliHarness) snapshot(t *testing.T) persistence.Snapshot {
	t.Helper()
	store, err := sqlite.Open(t.Context(), sqlite.TestConfig(h.dbPath), testfixtures.DiscardLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	snap, err := store.LoadSnapshot(t.Context())
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return snap
}

func (h *cliHarness) offerID(t *testing.T, title string) string {
	t.Helper()
	for _, o := range h.snapshot(t).Offers {
		if o.Title == title {
			return o.ID
		}
	}
	t.Fatalf("offer %q not found", title)
	return ""
}

func (h *cliHarness) seed(t *testing.T) {
	t.Helper()
	out, err := h.run(t, "import", h.writeFile(t, "seed.yaml", seedYAML))
	if err != nil {
		t.Fatalf("import failed: %v (%s)", err, out)
	}
	want := "imported 1 companies, 2 candidates, 3 offers, 1 applications, 1 wishlist entries"
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestImport(t *testing.T) {
	t.Run("persists every record", func(t *testing.T) {
		h := newCLIHarness(t)
		h.seed(t)

		snap := h.snapshot(t)
		if len(snap.Companies) != 1 || len(snap.Candidates) != 2 || len(snap.Offers) != 3 {
			t.Fatalf("unexpected snapshot sizes: %d companies, %d candidates, %d offers",
				len(snap.Companies), len(snap.Candidates), len(snap.Offers))
		}
		if len(snap.Applications) != 1 || len(snap.Wishlist) != 1 {
			t.Fatalf("unexpected relations: %d applications, %d wishlist", len(snap.Applications), len(snap.Wishlist))
		}
		if snap.Offers[0].ExpiresAt == nil || snap.Offers[0].ExpiresAt.Format(time.DateOnly) != "2025-06-30" {
			t.Fatalf("expected expiration date to be imported, got %v", snap.Offers[0].ExpiresAt)
		}
		if snap.Candidates[0].SecretHash == "" || snap.Candidates[1].SecretHash != "" {
			t.Fatalf("expected only the student to carry a secret hash")
		}
	})

	t.Run("stores nothing when a record is invalid", func(t *testing.T) {
		h := newCLIHarness(t)
		broken := strings.Replace(seedYAML, "kind: alumnus", "kind: professor", 1)

		if _, err := h.run(t, "import", h.writeFile(t, "seed.yaml", broken)); err == nil {
			t.Fatalf("expected import to fail")
		}
		snap := h.snapshot(t)
		if len(snap.Companies) != 0 || len(snap.Candidates) != 0 {
			t.Fatalf("expected empty database, got %d companies and %d candidates", len(snap.Companies), len(snap.Candidates))
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		h := newCLIHarness(t)
		path := h.writeFile(t, "seed.yaml", seedYAML+"salaries: []\n")
		if _, err := h.run(t, "import", path); err == nil || !strings.Contains(err.Error(), "salaries") {
			t.Fatalf("expected unused key error, got %v", err)
		}
	})
}

func TestApplyAndWithdraw(t *testing.T) {
	h := newCLIHarness(t)
	h.seed(t)
	thesis := h.offerID(t, "Search Thesis")

	out, err := h.run(t, "apply", "20000001", thesis)
	if err != nil || !strings.Contains(out, "applied to offer "+thesis) {
		t.Fatalf("expected apply to succeed, got %v (%s)", err, out)
	}

	out, err = h.run(t, "apply", "20000001", thesis)
	if err == nil || !strings.Contains(out, "already_applied") {
		t.Fatalf("expected already_applied, got %v (%s)", err, out)
	}

	if out, err := h.run(t, "withdraw", "20000001", thesis); err != nil {
		t.Fatalf("expected withdraw to succeed, got %v (%s)", err, out)
	}
	out, err = h.run(t, "withdraw", "20000001", thesis)
	if err == nil || !strings.Contains(out, "not_applied") {
		t.Fatalf("expected not_applied, got %v (%s)", err, out)
	}

	if got := len(h.snapshot(t).Applications); got != 1 {
		t.Fatalf("expected only the imported application left, got %d", got)
	}
}

func TestRecommend(t *testing.T) {
	h := newCLIHarness(t)
	h.seed(t)

	out, err := h.run(t, "recommend", "10000001", "-n", "5")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if !strings.Contains(out, "Recommendations for Ada Lovelace (student)") {
		t.Fatalf("expected heading, got %q", out)
	}
	if strings.Contains(out, "Web Developer Internship") {
		t.Fatalf("expected applied offer to be excluded, got %q", out)
	}
	if !strings.Contains(out, "Platform Apprenticeship") || !strings.Contains(out, "Search Thesis") {
		t.Fatalf("expected open offers to be listed, got %q", out)
	}

	out, err = h.run(t, "recommend", "99999999")
	if err == nil || !strings.Contains(out, "not_found") {
		t.Fatalf("expected not_found, got %v (%s)", err, out)
	}
}

func TestRemoveOffer(t *testing.T) {
	h := newCLIHarness(t)
	h.seed(t)
	internship := h.offerID(t, "Web Developer Internship")

	out, err := h.run(t, "remove-offer", "acme", internship, "--yes")
	if err != nil || !strings.Contains(out, "1 application(s) dropped") {
		t.Fatalf("expected removal to succeed, got %v (%s)", err, out)
	}
	snap := h.snapshot(t)
	if len(snap.Offers) != 2 || len(snap.Applications) != 0 {
		t.Fatalf("expected cascade, got %d offers and %d applications", len(snap.Offers), len(snap.Applications))
	}

	out, err = h.run(t, "remove-offer", "acme", internship, "--yes")
	if err == nil || !strings.Contains(out, "not_found") {
		t.Fatalf("expected not_found, got %v (%s)", err, out)
	}
}

func TestWishlistCommands(t *testing.T) {
	h := newCLIHarness(t)
	h.seed(t)

	out, err := h.run(t, "wishlist", "list", "acme")
	if err != nil || !strings.Contains(out, "Alan Turing") {
		t.Fatalf("expected imported wishlist, got %v (%s)", err, out)
	}

	if out, err := h.run(t, "wishlist", "add", "acme", "10000001"); err != nil {
		t.Fatalf("wishlist add failed: %v (%s)", err, out)
	}
	out, err = h.run(t, "wishlist", "add", "acme", "10000001")
	if err == nil || !strings.Contains(out, "already_wishlisted") {
		t.Fatalf("expected already_wishlisted, got %v (%s)", err, out)
	}

	if out, err := h.run(t, "wishlist", "remove", "acme", "20000001"); err != nil {
		t.Fatalf("wishlist remove failed: %v (%s)", err, out)
	}
	entries := h.snapshot(t).Wishlist
	if len(entries) != 1 || entries[0].CandidateID != "10000001" {
		t.Fatalf("unexpected wishlist entries: %v", entries)
	}
}

func TestStats(t *testing.T) {
	h := newCLIHarness(t)
	h.seed(t)

	out, err := h.run(t, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "Offer statistics") || !strings.Contains(out, "APPRENTICESHIPS") {
		t.Fatalf("expected statistics table, got %q", out)
	}
}

func TestRootCmd_InvalidConfiguration(t *testing.T) {
	h := newCLIHarness(t)
	t.Setenv("MATCHING_HTTP_PORT", "0")

	_, err := h.run(t, "stats")
	if err == nil || !strings.Contains(err.Error(), "MATCHING_HTTP_PORT") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
