package view

import (
	"net/http/httptest"
	"strings"
	"testing"

	"notesync-web/internal/domain"
	"notesync-web/internal/service"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		want string
	}{
		{lang: "en", key: "history.empty", want: "No history"},
		{lang: "zh", key: "history.empty", want: "暂无历史"},
		{lang: "fr", key: "history.empty", want: "No history"},
		{lang: "zh", key: "missing.key", want: "missing.key"},
	}

	for _, tt := range tests {
		if got := Translate(tt.lang, tt.key); got != tt.want {
			t.Errorf("Translate(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
		}
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[domain.LangEnglish] {
		if _, ok := catalog[domain.LangChinese][key]; !ok {
			t.Errorf("zh catalog is missing %q", key)
		}
	}
	for key := range catalog[domain.LangChinese] {
		if _, ok := catalog[domain.LangEnglish][key]; !ok {
			t.Errorf("en catalog is missing %q", key)
		}
	}
}

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Title\n\n<script>alert(1)</script>\n\n- [x] done\n")
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<h1>Title</h1>") {
		t.Errorf("missing heading: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML was rendered: %s", out)
	}
	if !strings.Contains(out, `type="checkbox"`) {
		t.Errorf("task list not rendered: %s", out)
	}
}

func TestRenderPage(t *testing.T) {
	views := MustParseTemplates()
	state := &domain.AppState{Username: "alice", IsAdmin: true, Preferences: domain.DefaultPreferences()}
	state.Preferences.Lang = domain.LangChinese

	data := NewViewData(state, "work", "notes")
	data.Vault = "work"
	data.Notes = []domain.Note{{ID: 1, Path: "a <b>.md", Version: 3}}
	data.Pager = domain.Pager{Page: 2, PageSize: 1, TotalRows: 3}

	rec := httptest.NewRecorder()
	views.RenderPage(rec, 200, data)

	body := rec.Body.String()
	for _, want := range []string{`lang="zh"`, "alice", "a &lt;b&gt;.md", "?page=1", "?page=3", "/settings", "回收站"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderHistoryPanel(t *testing.T) {
	views := MustParseTemplates()
	data := NewViewData(&domain.AppState{}, "", "")
	data.Placeholder = "No history"

	rec := httptest.NewRecorder()
	views.RenderTemplate(rec, 200, "history_panel", data)
	if got := strings.TrimSpace(rec.Body.String()); got != `<div id="history-panel"></div>` {
		t.Errorf("nil history rendered %q", got)
	}

	data.History = &service.HistoryView{
		State:      service.HistoryDetailLoaded,
		Entries:    []domain.HistoryEntry{{ID: 5, Version: 2, ClientName: "phone"}, {ID: 4, Version: 1}},
		Pager:      domain.Pager{Page: 1, PageSize: 2, TotalRows: 3},
		TotalPages: 2,
		Selected:   &domain.HistoryEntry{ID: 5, Version: 2},
		Detail:     &domain.HistoryDetail{ID: 5, Version: 2},
		CanRestore: true,
	}
	data.DiffHTML = `<div class="diff">diff</div>`

	rec = httptest.NewRecorder()
	views.RenderTemplate(rec, 200, "history_panel", data)
	body := rec.Body.String()
	for _, want := range []string{`class="selected"`, "/history/4", "/history?page=2", `<div class="diff">diff</div>`, "/history/restore"} {
		if !strings.Contains(body, want) {
			t.Errorf("panel missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "disabled") {
		t.Error("restore disabled while CanRestore")
	}

	data.History.CanRestore = false
	data.History.Restoring = true
	rec = httptest.NewRecorder()
	views.RenderTemplate(rec, 200, "history_panel", data)
	if !strings.Contains(rec.Body.String(), "disabled") {
		t.Error("restore enabled while restoring")
	}
}
