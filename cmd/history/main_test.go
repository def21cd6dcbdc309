package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"notesync-web/internal/remote"
)

type fakeAPI struct {
	restores atomic.Int32
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reply := func(data interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"code": 1, "status": true, "data": data})
	}

	if r.URL.Path != "/api/user/login" && r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/api/user/login":
		reply(map[string]interface{}{"uid": 7, "username": "alice", "token": "tok"})
	case "/api/note/histories":
		reply(map[string]interface{}{
			"list": []map[string]interface{}{
				{"id": 12, "version": 2, "clientName": "laptop"},
				{"id": 11, "version": 1, "clientName": "phone"},
			},
			"pager": map[string]int{"page": 1, "pageSize": 10, "totalRows": 2},
		})
	case "/api/note/history":
		reply(map[string]interface{}{
			"id":      12,
			"version": 2,
			"path":    "a.md",
			"content": "title\nnew\n",
			"diffs": []map[string]interface{}{
				{"Type": 0, "Text": "title\n"},
				{"Type": -1, "Text": "old\n"},
				{"Type": 1, "Text": "new\n"},
			},
		})
	case "/api/note/history/restore":
		f.restores.Add(1)
		reply(nil)
	default:
		http.NotFound(w, r)
	}
}

func newTestApp(t *testing.T) (*app, *fakeAPI, *bytes.Buffer) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return &app{
		client:    remote.NewClient(srv.URL, 5*time.Second),
		tokenPath: filepath.Join(t.TempDir(), "notesync", "token"),
		out:       out,
		pageSize:  10,
		timeout:   time.Second,
	}, api, out
}

func TestLoginStoresToken(t *testing.T) {
	a, _, out := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "")

	readPassword = func(string) (string, error) { return "secret", nil }
	t.Cleanup(func() { readPassword = promptPassword })

	if err := a.run(context.Background(), "login", []string{"alice"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	b, err := os.ReadFile(a.tokenPath)
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if string(b) != "tok" {
		t.Fatalf("expected stored token, got %q", b)
	}
	if !strings.Contains(out.String(), "signed in as alice") {
		t.Fatalf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := a.run(context.Background(), "list", []string{"work", "a.md"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "laptop") || !strings.Contains(out.String(), "page 1 of 1") {
		t.Fatalf("unexpected list output: %q", out.String())
	}
}

func TestCommandsNeedToken(t *testing.T) {
	a, _, _ := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "")

	err := a.run(context.Background(), "list", []string{"work", "a.md"})
	if err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("expected not signed in error, got %v", err)
	}
}

func TestExpiredTokenIsReported(t *testing.T) {
	a, _, _ := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "stale")

	err := a.run(context.Background(), "list", []string{"work", "a.md"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := describe(err); !strings.Contains(got, "session expired") {
		t.Fatalf("describe() = %q", got)
	}
}

func TestShowChangedOnly(t *testing.T) {
	a, _, out := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "tok")

	if err := a.run(context.Background(), "show", []string{"-changed", "work", "a.md", "12"}); err != nil {
		t.Fatalf("show: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "a.md (v2)") {
		t.Fatalf("missing header: %q", got)
	}
	if strings.Contains(got, "title") {
		t.Fatalf("unchanged line printed with -changed: %q", got)
	}
	if !strings.Contains(got, "old") || !strings.Contains(got, "new") {
		t.Fatalf("changed lines missing: %q", got)
	}
}

func TestShowUnknownVersion(t *testing.T) {
	a, _, _ := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "tok")

	err := a.run(context.Background(), "show", []string{"work", "a.md", "99"})
	if err == nil || !strings.Contains(err.Error(), "not on page 1") {
		t.Fatalf("expected unknown version error, got %v", err)
	}
}

func TestCopyWritesOriginalContent(t *testing.T) {
	a, _, _ := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "tok")

	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })

	if err := a.run(context.Background(), "copy", []string{"work", "a.md", "12"}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied != "title\nnew\n" {
		t.Fatalf("expected original content copied, got %q", copied)
	}
}

func TestRestore(t *testing.T) {
	a, api, out := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "tok")

	if err := a.run(context.Background(), "restore", []string{"work", "a.md", "12"}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n := api.restores.Load(); n != 1 {
		t.Fatalf("expected one restore call, got %d", n)
	}
	if !strings.Contains(out.String(), "restored version 12") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestPageOutOfRange(t *testing.T) {
	a, _, _ := newTestApp(t)
	t.Setenv("NOTESYNC_TOKEN", "tok")

	err := a.run(context.Background(), "list", []string{"-page", "3", "work", "a.md"})
	if got := describe(err); got != "no such page" {
		t.Fatalf("describe() = %q", got)
	}
}
