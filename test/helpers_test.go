package test

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"clipshare/cfg"
	"clipshare/pkg/client"
	"clipshare/svc/api"
	"clipshare/svc/auth"
	"clipshare/svc/db"
	"clipshare/svc/lim"
	"clipshare/svc/session"
	"clipshare/svc/svc"
)

var envLoadOnce sync.Once

func loadTestEnv() {
	envLoadOnce.Do(func() {
		paths := []string{
			".env.test",
			"../.env.test",
		}
		for _, p := range paths {
			if absPath, err := filepath.Abs(p); err == nil {
				if _, err := os.Stat(absPath); err == nil {
					if err := godotenv.Load(absPath); err == nil {
						return
					}
				}
			}
		}
	})
}

func createTestConfig(t *testing.T) *cfg.Cfg {
	t.Helper()
	loadTestEnv()

	c, err := cfg.Load()
	if err != nil {
		t.Fatal(err)
	}
	c.Port = "0"
	c.Environment = "test"
	c.LogLevel = "error"
	c.DatabasePath = ":memory:"
	// Cheapest valid argon2 parameters so signup-heavy tests stay fast.
	c.Argon2Time = 1
	c.Argon2Memory = 8 * 1024
	c.Argon2Parallelism = 1
	// Effectively unlimited so only the tests that want throttling see it.
	c.RateLimit.RPM = 100000
	c.RateLimit.Burst = 10000
	return c
}

func createTestDB(t *testing.T, c *cfg.Cfg) *db.SQLite {
	t.Helper()
	dsn := fmt.Sprintf("file:e2edb%d?mode=memory&cache=shared", time.Now().UnixNano())
	sqlDB, err := db.NewSQLiteWithConfig(dsn, 10, 5, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

// createTestServer stands up the full HTTP stack on an ephemeral listener
// and returns a client wired to it. The client carries its own cookie jar,
// so each call site is an independent browser-like session.
func createTestServer(t *testing.T) (*httptest.Server, *cfg.Cfg) {
	t.Helper()
	c := createTestConfig(t)
	sqlDB := createTestDB(t, c)

	sessions, err := session.NewMemory(c.SessionStoreSize)
	if err != nil {
		t.Fatal(err)
	}
	hasher, err := auth.NewHasher(c.Argon2Time, c.Argon2Memory, c.Argon2Parallelism, []byte(c.Pepper.Value()))
	if err != nil {
		t.Fatal(err)
	}
	limiter := lim.New(c.RateLimit.RPM, c.RateLimit.Burst)
	t.Cleanup(limiter.Stop)

	account := svc.NewAccount(sqlDB, sessions, hasher, c)
	clipboard := svc.NewClipboard(sqlDB, c)
	server := api.NewServer(c, account, clipboard, limiter, sqlDB)

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return ts, c
}

func createTestClient(t *testing.T, ts *httptest.Server) *client.Client {
	t.Helper()
	cl, err := client.New(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cl.Close)
	return cl
}
