package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"

	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, passwordHash string) (*lib.Server, *httptest.Server) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("SESSION_SECRET_KEY", "test-session-secret")
	t.Setenv("MONETARIAT_PASSWORD_HASH", passwordHash)

	s := lib.NewServer(FS)
	setupRoutes(s)
	s.Queue.RunJob("db-migrate-up", lib.J{})

	t.Cleanup(s.Database.Close)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b := bytes.NewBuffer(nil)
	if _, err := b.ReadFrom(res.Body); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t, hashPassword(t, "test1234"))
	client := newTestClient(t)

	t.Run("pages redirect to the login form when logged out", func(t *testing.T) {
		noRedirect := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}}
		res, err := noRedirect.Get(ts.URL + "/monetariat/")
		if err != nil {
			t.Fatal(err)
		}
		body(t, res)
		if res.StatusCode != 302 {
			t.Fatalf("expected 302, got %d", res.StatusCode)
		}
		if loc := res.Header.Get("Location"); loc != "/monetariat/login?return=/monetariat/" {
			t.Fatalf("unexpected redirect target %q", loc)
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		res, err := client.PostForm(ts.URL+"/monetariat/login", url.Values{"password": {"wrong"}})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(body(t, res), "Invalid credentials") {
			t.Fatal("expected the login page with an error")
		}

		res, err = client.Get(ts.URL + "/monetariat/")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(body(t, res), "Mot de passe") {
			t.Fatal("expected to still land on the login form")
		}
	})

	t.Run("correct password creates a session", func(t *testing.T) {
		res, err := client.PostForm(ts.URL+"/monetariat/login", url.Values{"password": {"test1234"}})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(body(t, res), "Nouvelle dépense") {
			t.Fatal("expected to land on the expense form after login")
		}
	})

	t.Run("the session persists across requests", func(t *testing.T) {
		res, err := client.Get(ts.URL + "/monetariat/dashboard")
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != 200 || !strings.Contains(body(t, res), "Monétariat") {
			t.Fatalf("expected the dashboard, got %d", res.StatusCode)
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		if _, err := client.Get(ts.URL + "/monetariat/logout"); err != nil {
			t.Fatal(err)
		}
		res, err := client.Get(ts.URL + "/monetariat/")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(body(t, res), "Mot de passe") {
			t.Fatal("expected the login form after logout")
		}
	})
}

func TestLoginDefaultPassword(t *testing.T) {
	// With no hash configured the documented admin123 default lets you in
	_, ts := newTestServer(t, "")
	client := newTestClient(t)

	res, err := client.PostForm(ts.URL+"/monetariat/login", url.Values{"password": {"admin123"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body(t, res), "Nouvelle dépense") {
		t.Fatal("expected admin123 to work by default")
	}

	// Fresh client, the one above already holds a session
	other := newTestClient(t)
	res, err = other.PostForm(ts.URL+"/monetariat/login", url.Values{"password": {"hunter2"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body(t, res), "Invalid credentials") {
		t.Fatal("expected other passwords to fail")
	}
}

func TestTamperedSessionCookie(t *testing.T) {
	_, ts := newTestServer(t, hashPassword(t, "test1234"))

	req, err := http.NewRequest("GET", ts.URL+"/monetariat/dashboard", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: lib.SessionCookieName, Value: "forged.token"})
	noRedirect := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	res, err := noRedirect.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body(t, res)
	if res.StatusCode != 302 {
		t.Fatalf("expected a redirect to login, got %d", res.StatusCode)
	}
}

func TestExpensesAPI(t *testing.T) {
	_, ts := newTestServer(t, hashPassword(t, "test1234"))
	client := newTestClient(t)

	t.Run("requires a session", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/monetariat/api/expenses")
		if err != nil {
			t.Fatal(err)
		}
		b := body(t, res)
		if res.StatusCode != 401 {
			t.Fatalf("expected 401, got %d", res.StatusCode)
		}
		if !strings.Contains(b, "authentication required") {
			t.Fatalf("expected a JSON error, got %q", b)
		}
	})

	if _, err := client.PostForm(ts.URL+"/monetariat/login", url.Values{"password": {"test1234"}}); err != nil {
		t.Fatal(err)
	}

	postExpense := func(t *testing.T, payload lib.J) (int, lib.J) {
		t.Helper()
		bs, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		res, err := client.Post(ts.URL+"/monetariat/api/expenses", "application/json", bytes.NewReader(bs))
		if err != nil {
			t.Fatal(err)
		}
		result := lib.J{}
		if err := json.Unmarshal([]byte(body(t, res)), &result); err != nil {
			t.Fatal(err)
		}
		return res.StatusCode, result
	}

	today := time.Now().UTC().Format("2006-01-02")

	t.Run("create", func(t *testing.T) {
		code, result := postExpense(t, lib.J{
			"amount":          42.50,
			"category":        "Épicerie",
			"necessity_level": "essential",
			"expense_date":    today,
			"description":     "Marché Jean-Talon",
			"payment_method":  "debit",
		})
		if code != 200 || result["success"] != true {
			t.Fatalf("expected success, got %d %v", code, result)
		}
		if result["id"] == "" || result["id"] == nil {
			t.Fatalf("expected an id, got %v", result)
		}
	})

	t.Run("create rejects bad input", func(t *testing.T) {
		code, result := postExpense(t, lib.J{
			"amount":          0,
			"category":        "",
			"necessity_level": "luxury",
			"expense_date":    "25/08/2026",
		})
		if code != 422 || result["success"] != false {
			t.Fatalf("expected 422, got %d %v", code, result)
		}
		errors, ok := result["errors"].([]interface{})
		if !ok || len(errors) != 4 {
			t.Fatalf("expected 4 validation errors, got %v", result["errors"])
		}
	})

	t.Run("list", func(t *testing.T) {
		res, err := client.Get(ts.URL + "/monetariat/api/expenses")
		if err != nil {
			t.Fatal(err)
		}
		expenses := []*models.Expense{}
		if err := json.Unmarshal([]byte(body(t, res)), &expenses); err != nil {
			t.Fatal(err)
		}
		if len(expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(expenses))
		}
		e := expenses[0]
		if e.Amount != 42.50 || e.Category != "Épicerie" || e.ExpenseDate != today {
			t.Fatalf("unexpected expense %+v", e)
		}
	})

	t.Run("stats", func(t *testing.T) {
		res, err := client.Get(ts.URL + "/monetariat/api/expenses/stats")
		if err != nil {
			t.Fatal(err)
		}
		stats := struct {
			ByCategory []*models.CategoryTotal `json:"by_category"`
			Total      float64                 `json:"total"`
			ThisMonth  float64                 `json:"this_month"`
		}{}
		if err := json.Unmarshal([]byte(body(t, res)), &stats); err != nil {
			t.Fatal(err)
		}
		if stats.Total != 42.50 || stats.ThisMonth != 42.50 {
			t.Fatalf("expected totals of 42.50, got %+v", stats)
		}
		if len(stats.ByCategory) != 1 || stats.ByCategory[0].Category != "Épicerie" || stats.ByCategory[0].Count != 1 {
			t.Fatalf("unexpected categories %+v", stats.ByCategory)
		}
	})
}

func TestWifiAPI(t *testing.T) {
	s, ts := newTestServer(t, hashPassword(t, "test1234"))

	now := time.Now().UTC()
	lat := func(v float64) *float64 { return &v }
	s.Database.Put(&models.Ping{
		ID: lib.NewID(), Timestamp: now.Add(-3 * time.Minute), Host: "8.8.8.8",
		PacketsTransmitted: 4, PacketsReceived: 4, PacketLoss: 0,
		MinLatency: lat(10), AvgLatency: lat(12), MaxLatency: lat(14),
		Status: models.PingStatusSuccess,
	})
	s.Database.Put(&models.Ping{
		ID: lib.NewID(), Timestamp: now.Add(-2 * time.Minute), Host: "8.8.8.8",
		PacketsTransmitted: 4, PacketsReceived: 0, PacketLoss: 100,
		Status: models.PingStatusTimeout,
	})

	t.Run("summary", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/wifi/api/summary")
		if err != nil {
			t.Fatal(err)
		}
		stats := []*models.HostStats{}
		if err := json.Unmarshal([]byte(body(t, res)), &stats); err != nil {
			t.Fatal(err)
		}
		if len(stats) != 1 {
			t.Fatalf("expected stats for 1 host, got %d", len(stats))
		}
		st := stats[0]
		if st.Host != "8.8.8.8" || st.TotalPings != 2 || st.Timeouts != 1 {
			t.Fatalf("unexpected stats %+v", st)
		}
		if st.Uptime != 50 || st.AvgLoss != 50 || st.AvgLatency != 12 {
			t.Fatalf("unexpected aggregates %+v", st)
		}
	})

	t.Run("stats keyed by host", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/wifi/api/stats")
		if err != nil {
			t.Fatal(err)
		}
		byHost := map[string]*models.HostStats{}
		if err := json.Unmarshal([]byte(body(t, res)), &byHost); err != nil {
			t.Fatal(err)
		}
		if byHost["8.8.8.8"] == nil || byHost["8.8.8.8"].TotalPings != 2 {
			t.Fatalf("unexpected stats %+v", byHost)
		}
	})

	t.Run("history", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/wifi/api/history/1")
		if err != nil {
			t.Fatal(err)
		}
		history := []*models.Ping{}
		if err := json.Unmarshal([]byte(body(t, res)), &history); err != nil {
			t.Fatal(err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 samples, got %d", len(history))
		}
		if !history[0].Timestamp.Before(history[1].Timestamp) {
			t.Fatal("expected history in ascending order")
		}
		if history[1].AvgLatency != nil {
			t.Fatal("expected null latencies on the timeout sample")
		}
	})

	t.Run("outages", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/wifi/api/outages/1")
		if err != nil {
			t.Fatal(err)
		}
		outages := []*models.Outage{}
		if err := json.Unmarshal([]byte(body(t, res)), &outages); err != nil {
			t.Fatal(err)
		}
		if len(outages) != 1 {
			t.Fatalf("expected 1 outage, got %d", len(outages))
		}
		if outages[0].Host != "8.8.8.8" || outages[0].Status != "ongoing" {
			t.Fatalf("unexpected outage %+v", outages[0])
		}
	})
}

func TestNotFound(t *testing.T) {
	_, ts := newTestServer(t, hashPassword(t, "test1234"))
	res, err := http.Get(ts.URL + "/nothing-here/")
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 404 || !strings.Contains(body(t, res), "404") {
		t.Fatalf("expected the 404 page, got %d", res.StatusCode)
	}
}
