package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	if got, err := parseDate("", time.UTC); err != nil || !got.IsZero() {
		t.Errorf("parseDate(\"\") = %v, %v; want zero time", got, err)
	}
	got, err := parseDate("2024-03-09", time.UTC)
	if err != nil {
		t.Fatalf("parseDate() error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 9 {
		t.Errorf("parseDate() = %v", got)
	}
	if _, err := parseDate("09/03/2024", time.UTC); err == nil {
		t.Error("expected error for a non-ISO date")
	}
}

func TestReportRange(t *testing.T) {
	r, err := reportRangeIn("2024-03-01", "2024-03-01", time.UTC)
	if err != nil {
		t.Fatalf("reportRange() error: %v", err)
	}
	if got := r.End.Sub(r.Start); got != 24*time.Hour-time.Second {
		t.Errorf("single-day range spans %v", got)
	}
	if _, err := reportRange("2024-03-02", "2024-03-01"); err == nil {
		t.Error("expected error when --to precedes --from")
	}
	if r, err := reportRange("", ""); err != nil || !r.Start.IsZero() || !r.End.IsZero() {
		t.Errorf("open range = %+v, %v", r, err)
	}
}

func TestReportRangeAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// 2024-03-10 has 23 hours in New York and 2024-11-03 has 25.
	for _, day := range []string{"2024-03-10", "2024-11-03"} {
		r, err := reportRangeIn(day, day, loc)
		if err != nil {
			t.Fatalf("reportRangeIn(%s) error: %v", day, err)
		}
		end := r.End.In(loc)
		if got := end.Format("2006-01-02 15:04:05"); got != day+" 23:59:59" {
			t.Errorf("end of %s = %s, want %s 23:59:59", day, got, day)
		}
	}
}

// backend is a fake bookstore API that accepts ada/secret123.
type backend struct {
	role  string
	perms []string
	hits  atomic.Int32
	stock atomic.Int32
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.hits.Add(1)
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/auth/login":
		var req struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		if req.Username != "ada" || req.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Credenciales inválidas"}`)) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"token":     "tok",
			"tokenType": "Bearer",
			"person": map[string]any{
				"id": 1, "firstName": "Ada", "lastName": "Lovelace",
				"user": map[string]any{"username": "ada", "role": b.role, "permissions": b.perms},
			},
		})
	case "/api/reports/products/low-stock":
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"productId":3,"title":"Ulysses","stock":2}]`)) //nolint:errcheck
	default:
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.records(w, r)
	}
}

// records serves the product, role and inventory endpoints used by the
// management commands.
func (b *backend) records(w http.ResponseWriter, r *http.Request) {
	switch r.Method + " " + r.URL.Path {
	case "POST /api/products":
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		in["id"] = 42
		json.NewEncoder(w).Encode(in) //nolint:errcheck
	case "POST /api/roles/3/permissions/GET_SALES":
		w.Write([]byte(`{"id":3,"name":"CAJERO","permissions":[{"id":1,"name":"CREATE_SALE"},{"id":2,"name":"GET_SALES"}]}`)) //nolint:errcheck
	case "DELETE /api/roles/3/permissions/GET_SALES":
		w.Write([]byte(`{"id":3,"name":"CAJERO","permissions":[{"id":1,"name":"CREATE_SALE"}]}`)) //nolint:errcheck
	case "POST /api/inventory/recharge":
		var adj struct{ ProductID, Quantity int32 }
		json.NewDecoder(r.Body).Decode(&adj) //nolint:errcheck
		if adj.ProductID != 7 {
			http.NotFound(w, r)
			return
		}
		b.stock.Add(adj.Quantity)
		w.WriteHeader(http.StatusNoContent)
	case "GET /api/inventory/product/7/stock":
		json.NewEncoder(w).Encode(b.stock.Load()) //nolint:errcheck
	default:
		http.NotFound(w, r)
	}
}

// setupEnv points every setting at a temp dir and the fake backend.
func setupEnv(t *testing.T, b *backend) string {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	t.Setenv("SHELFDESK_API_URL", srv.URL)
	t.Setenv("SHELFDESK_SESSION_FILE", filepath.Join(dir, "session.yaml"))
	t.Setenv("SHELFDESK_LOG_FILE", filepath.Join(dir, "shelfdesk.log"))
	t.Setenv("SHELFDESK_ACCESS_FILE", "")
	return dir
}

func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetArgs(append([]string{"--env-file", filepath.Join(dir, "missing.env")}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.Contains(out, "shelfdesk "+version) {
		t.Errorf("output = %q", out)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	b := &backend{role: "ADMINISTRADOR", perms: []string{"GET_PRODUCTS", "GET_SALES"}}
	dir := setupEnv(t, b)

	out, err := run(t, dir, "secret123\n", "login", "ada")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out, "Signed in as ada (ADMINISTRADOR)") {
		t.Errorf("login output = %q", out)
	}

	out, err = run(t, dir, "", "whoami")
	if err != nil {
		t.Fatalf("whoami error: %v", err)
	}
	for _, want := range []string{"ada", "Ada Lovelace", "GET_SALES", "dashboard", "products"} {
		if !strings.Contains(out, want) {
			t.Errorf("whoami output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, dir, "", "report", "low-stock")
	if err != nil {
		t.Fatalf("low-stock error: %v", err)
	}
	if !strings.Contains(out, "Ulysses") {
		t.Errorf("low-stock output = %q", out)
	}

	if out, err = run(t, dir, "", "logout"); err != nil || !strings.Contains(out, "Signed out.") {
		t.Fatalf("logout = %q, %v", out, err)
	}
	if out, err = run(t, dir, "", "logout"); err != nil || !strings.Contains(out, "Already signed out.") {
		t.Errorf("second logout = %q, %v", out, err)
	}
	if _, err = run(t, dir, "", "whoami"); !errors.Is(err, errNotSignedIn) {
		t.Errorf("whoami after logout error = %v, want errNotSignedIn", err)
	}
}

func TestLoginPromptsForUsername(t *testing.T) {
	b := &backend{role: "DOCENTE"}
	dir := setupEnv(t, b)

	out, err := run(t, dir, "ada\nsecret123\n", "login")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out, "username: ") || !strings.Contains(out, "Signed in as ada") {
		t.Errorf("output = %q", out)
	}
}

func TestLoginRejected(t *testing.T) {
	b := &backend{role: "DOCENTE"}
	dir := setupEnv(t, b)

	_, err := run(t, dir, "wrong\n", "login", "ada")
	if err == nil || !strings.Contains(err.Error(), "Credenciales inválidas") {
		t.Fatalf("error = %v, want backend message", err)
	}
	if _, err := run(t, dir, "", "whoami"); !errors.Is(err, errNotSignedIn) {
		t.Errorf("whoami error = %v, want errNotSignedIn", err)
	}
}

func TestReportGuarded(t *testing.T) {
	b := &backend{role: "DOCENTE"}
	dir := setupEnv(t, b)

	if _, err := run(t, dir, "", "report", "low-stock"); !errors.Is(err, errNotSignedIn) {
		t.Errorf("anonymous report error = %v, want errNotSignedIn", err)
	}
	if b.hits.Load() != 0 {
		t.Errorf("backend hit %d times before sign in", b.hits.Load())
	}

	if _, err := run(t, dir, "secret123\n", "login", "ada"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	before := b.hits.Load()
	_, err := run(t, dir, "", "report", "sales")
	if err == nil || !strings.Contains(err.Error(), "not authorized") {
		t.Errorf("sales report error = %v, want not authorized", err)
	}
	if b.hits.Load() != before {
		t.Error("unauthorized report reached the backend")
	}
}

func TestResetPasswordMismatch(t *testing.T) {
	b := &backend{}
	dir := setupEnv(t, b)

	_, err := run(t, dir, "12345678\nabcdefgh\n", "reset-password", "tok")
	if err == nil || !strings.Contains(err.Error(), "do not match") {
		t.Errorf("error = %v, want mismatch", err)
	}
	if b.hits.Load() != 0 {
		t.Error("mismatched passwords reached the backend")
	}
}

func TestInvalidAPIURLFlag(t *testing.T) {
	dir := setupEnv(t, &backend{})
	if _, err := run(t, dir, "", "--api-url", "ftp://example.com", "whoami"); err == nil {
		t.Error("expected config error for a non-http API URL")
	}
}

func TestProductCreateFromStdin(t *testing.T) {
	b := &backend{role: "ADMINISTRADOR", perms: []string{"GET_PRODUCTS"}}
	dir := setupEnv(t, b)
	if _, err := run(t, dir, "secret123\n", "login", "ada"); err != nil {
		t.Fatalf("login error: %v", err)
	}

	out, err := run(t, dir, `{"title":"Dune","isbn":"978-0441013593","price":59.9,"stock":4}`, "product", "create")
	if err != nil {
		t.Fatalf("product create error: %v", err)
	}
	var got struct {
		ID    int64
		Title string
		Stock int
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.ID != 42 || got.Title != "Dune" || got.Stock != 4 {
		t.Errorf("created = %+v", got)
	}

	before := b.hits.Load()
	if _, err := run(t, dir, `{"title":"Dune","pages":412}`, "product", "create"); err == nil || !strings.Contains(err.Error(), "parse payload") {
		t.Errorf("unknown field error = %v, want parse payload", err)
	}
	if b.hits.Load() != before {
		t.Error("rejected payload reached the backend")
	}
}

func TestProductCreateFromFile(t *testing.T) {
	b := &backend{role: "ADMINISTRADOR", perms: []string{"GET_PRODUCTS"}}
	dir := setupEnv(t, b)
	if _, err := run(t, dir, "secret123\n", "login", "ada"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	path := filepath.Join(dir, "product.json")
	if err := os.WriteFile(path, []byte(`{"title":"Solaris","stock":1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, "", "product", "create", "-f", path)
	if err != nil {
		t.Fatalf("product create error: %v", err)
	}
	if !strings.Contains(out, `"title": "Solaris"`) {
		t.Errorf("output = %q", out)
	}
}

func TestProductCommandsGuarded(t *testing.T) {
	b := &backend{role: "DOCENTE", perms: []string{"GET_SALES"}}
	dir := setupEnv(t, b)

	if _, err := run(t, dir, "{}", "product", "create"); !errors.Is(err, errNotSignedIn) {
		t.Errorf("anonymous create error = %v, want errNotSignedIn", err)
	}
	if _, err := run(t, dir, "secret123\n", "login", "ada"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	before := b.hits.Load()
	if _, err := run(t, dir, "", "product", "get", "5"); err == nil || !strings.Contains(err.Error(), "not authorized") {
		t.Errorf("get error = %v, want not authorized", err)
	}
	if _, err := run(t, dir, "", "role", "grant", "3", "GET_SALES"); err == nil || !strings.Contains(err.Error(), "not authorized") {
		t.Errorf("grant error = %v, want not authorized", err)
	}
	if b.hits.Load() != before {
		t.Error("unauthorized command reached the backend")
	}
}

func TestRoleGrantRevoke(t *testing.T) {
	b := &backend{role: "ADMINISTRADOR"}
	dir := setupEnv(t, b)
	if _, err := run(t, dir, "secret123\n", "login", "ada"); err != nil {
		t.Fatalf("login error: %v", err)
	}

	out, err := run(t, dir, "", "role", "grant", "3", "GET_SALES")
	if err != nil {
		t.Fatalf("grant error: %v", err)
	}
	if !strings.Contains(out, "CAJERO: [CREATE_SALE GET_SALES]") {
		t.Errorf("grant output = %q", out)
	}

	out, err = run(t, dir, "", "role", "revoke", "3", "GET_SALES")
	if err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if !strings.Contains(out, "CAJERO: [CREATE_SALE]") {
		t.Errorf("revoke output = %q", out)
	}

	if _, err := run(t, dir, "", "role", "grant", "zero", "GET_SALES"); err == nil || !strings.Contains(err.Error(), "invalid id") {
		t.Errorf("bad id error = %v", err)
	}
}

func TestStockRecharge(t *testing.T) {
	b := &backend{role: "ALMACEN", perms: []string{"GET_STOCK_MOVEMENTS", "GET_INVENTORY"}}
	b.stock.Store(5)
	dir := setupEnv(t, b)
	if _, err := run(t, dir, "secret123\n", "login", "ada"); err != nil {
		t.Fatalf("login error: %v", err)
	}

	out, err := run(t, dir, "", "stock", "recharge", "7", "3", "--reason", "delivery")
	if err != nil {
		t.Fatalf("recharge error: %v", err)
	}
	if !strings.Contains(out, "product #7 now has 8 in stock") {
		t.Errorf("recharge output = %q", out)
	}

	out, err = run(t, dir, "", "stock", "level", "7")
	if err != nil || strings.TrimSpace(out) != "8" {
		t.Errorf("level = %q, %v", out, err)
	}

	before := b.hits.Load()
	if _, err := run(t, dir, "", "stock", "recharge", "7", "-2"); err == nil {
		t.Error("expected error for a negative quantity")
	}
	if b.hits.Load() != before {
		t.Error("invalid quantity reached the backend")
	}
}
