package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"notesync-web/internal/domain"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
)

func testAppStateRepository(t *testing.T, repo AppStateRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrStateNotFound", err)
	}

	state := &domain.AppState{
		SessionID:   "s1",
		UserUID:     7,
		Username:    "alice",
		Token:       "tok",
		Preferences: domain.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Token != "tok" || got.UserUID != 7 || got.Preferences.PageSize != 20 {
		t.Errorf("Get() = %+v", got)
	}

	got.Preferences.Theme = domain.ThemeDark
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}
	updated, _ := repo.Get(ctx, "s1")
	if updated.Preferences.Theme != domain.ThemeDark {
		t.Errorf("update not persisted: %+v", updated.Preferences)
	}

	expired := &domain.AppState{SessionID: "s2", Token: "old", ExpiresAt: now.Add(-time.Hour)}
	if err := repo.Save(ctx, expired); err != nil {
		t.Fatalf("Save() expired error = %v", err)
	}
	n, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", n)
	}
	if _, err := repo.Get(ctx, "s2"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expired state still present: %v", err)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("deleted state still present: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Errorf("Delete() of missing state error = %v", err)
	}
}

func TestMemoryAppStateRepository(t *testing.T) {
	testAppStateRepository(t, NewMemoryAppStateRepository())
}

func TestMemoryAppStateRepositoryCopies(t *testing.T) {
	repo := NewMemoryAppStateRepository()
	ctx := context.Background()

	state := &domain.AppState{SessionID: "s1", Token: "tok"}
	repo.Save(ctx, state)
	state.Token = "changed"

	got, _ := repo.Get(ctx, "s1")
	if got.Token != "tok" {
		t.Errorf("stored state aliased caller's struct: %q", got.Token)
	}
}

func TestSQLiteAppStateRepository(t *testing.T) {
	repo, db, err := OpenSQLiteAppStateRepository(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteAppStateRepository() error = %v", err)
	}
	defer db.Close()

	testAppStateRepository(t, repo)
}

func TestCouchAppStateRepository(t *testing.T) {
	url := os.Getenv("COUCHDB_TEST_URL")
	if url == "" {
		t.Skip("COUCHDB_TEST_URL not set")
	}

	client, err := kivik.New("couch", url)
	if err != nil {
		t.Fatalf("kivik.New() error = %v", err)
	}
	ctx := context.Background()
	dbName := "notesync_web_test"
	client.DestroyDB(ctx, dbName)
	if err := client.CreateDB(ctx, dbName); err != nil {
		t.Fatalf("CreateDB() error = %v", err)
	}
	defer client.DestroyDB(ctx, dbName)

	testAppStateRepository(t, NewCouchAppStateRepository(client, dbName))
}
