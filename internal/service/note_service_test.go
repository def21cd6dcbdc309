package service

import (
	"context"
	"errors"
	"testing"

	"notesync-web/internal/domain"
	"notesync-web/internal/remote"
	"notesync-web/internal/repository"
)

type mockNoteAPI struct {
	notes    map[string]*domain.Note
	recycled map[string]bool
	listReqs []domain.NoteListRequest
	empty    bool
}

func newMockNoteAPI() *mockNoteAPI {
	return &mockNoteAPI{
		notes: map[string]*domain.Note{
			"a.md": {ID: 1, Path: "a.md", Content: "# A"},
			"b.md": {ID: 2, Path: "b.md", Content: "# B"},
		},
		recycled: map[string]bool{"old.md": true},
	}
}

func (m *mockNoteAPI) ListVaults(ctx context.Context, token string) ([]domain.Vault, error) {
	if m.empty {
		return nil, remote.ErrEmptyResult
	}
	return []domain.Vault{{ID: 1, Name: "work"}}, nil
}

func (m *mockNoteAPI) ListNotes(ctx context.Context, token string, req *domain.NoteListRequest) (*domain.NoteList, error) {
	m.listReqs = append(m.listReqs, *req)
	if m.empty {
		return nil, remote.ErrEmptyResult
	}
	list := &domain.NoteList{Pager: domain.Pager{Page: req.Page, PageSize: req.PageSize, TotalRows: len(m.notes)}}
	for _, note := range m.notes {
		list.List = append(list.List, *note)
	}
	return list, nil
}

func (m *mockNoteAPI) GetNote(ctx context.Context, token string, ref domain.NoteRef) (*domain.Note, error) {
	note, ok := m.notes[ref.Path]
	if !ok {
		return nil, &remote.ServerRejection{Endpoint: "note.get", Code: 404, Message: "note not found"}
	}
	n := *note
	n.PathHash = ref.PathHash
	return &n, nil
}

func (m *mockNoteAPI) ListFiles(ctx context.Context, token, vault string, page, pageSize int) (*domain.FileList, error) {
	if m.empty {
		return nil, remote.ErrEmptyResult
	}
	return &domain.FileList{
		List:  []domain.File{{ID: 1, Path: "img.png", Size: 10}},
		Pager: domain.Pager{Page: page, PageSize: pageSize, TotalRows: 1},
	}, nil
}

func (m *mockNoteAPI) RestoreRecycle(ctx context.Context, token string, ref domain.NoteRef) error {
	if !m.recycled[ref.Path] {
		return &remote.ServerRejection{Endpoint: "recycle.restore", Code: 404, Message: "not in recycle bin"}
	}
	delete(m.recycled, ref.Path)
	m.notes[ref.Path] = &domain.Note{ID: 3, Path: ref.Path}
	return nil
}

func (m *mockNoteAPI) DeleteRecycle(ctx context.Context, token string, ref domain.NoteRef) error {
	if !m.recycled[ref.Path] {
		return &remote.ServerRejection{Endpoint: "recycle.delete", Code: 404, Message: "not in recycle bin"}
	}
	delete(m.recycled, ref.Path)
	return nil
}

func TestNoteService_List(t *testing.T) {
	api := newMockNoteAPI()
	svc := NewNoteService(api, nil)
	state := testState("s1")
	state.Preferences.PageSize = 50

	list, err := svc.List(context.Background(), state, &domain.NoteListRequest{Vault: "work"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.List) != 2 {
		t.Errorf("notes = %d, want 2", len(list.List))
	}
	if got := api.listReqs[0]; got.Page != 1 || got.PageSize != 50 {
		t.Errorf("request = %+v, want page 1 size 50", got)
	}

	if _, err := svc.List(context.Background(), state, &domain.NoteListRequest{}); err == nil {
		t.Error("List() without vault expected error")
	}

	api.empty = true
	list, err = svc.List(context.Background(), state, &domain.NoteListRequest{Vault: "work", IsRecycle: true})
	if err != nil {
		t.Fatalf("List() on empty vault error = %v", err)
	}
	if len(list.List) != 0 || list.Pager.Page != 1 {
		t.Errorf("empty list = %+v", list)
	}
}

func TestNoteService_Get(t *testing.T) {
	svc := NewNoteService(newMockNoteAPI(), nil)
	state := testState("s1")

	note, err := svc.Get(context.Background(), state, domain.NoteRef{Vault: "work", Path: "hello"})
	if err == nil {
		t.Fatalf("Get(hello) = %+v, want not found", note)
	}
	if remote.Message(err) != "note not found" {
		t.Errorf("Message() = %q", remote.Message(err))
	}

	note, err = svc.Get(context.Background(), state, domain.NoteRef{Vault: "work", Path: "a.md"})
	if err != nil {
		t.Fatalf("Get(a.md) error = %v", err)
	}
	if note.PathHash == "" {
		t.Error("PathHash was not filled in")
	}
}

func TestNoteService_VaultsAndFilesEmpty(t *testing.T) {
	api := newMockNoteAPI()
	api.empty = true
	svc := NewNoteService(api, nil)
	state := testState("s1")

	vaults, err := svc.Vaults(context.Background(), state)
	if err != nil || vaults == nil || len(vaults) != 0 {
		t.Errorf("Vaults() = %v, %v, want empty slice", vaults, err)
	}

	files, err := svc.Files(context.Background(), state, "work", 0)
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if files.Pager.Page != 1 || len(files.List) != 0 {
		t.Errorf("Files() = %+v", files)
	}

	var verr *ValidationError
	if _, err := svc.Files(context.Background(), state, "", 1); !errors.As(err, &verr) {
		t.Errorf("Files() without vault error = %v", err)
	}
}

func TestNoteService_Recycle(t *testing.T) {
	api := newMockNoteAPI()
	notifier := &mockNotifier{}
	svc := NewNoteService(api, notifier)
	state := testState("s1")

	ref := domain.NoteRef{Vault: "work", Path: "old.md"}
	if err := svc.RestoreRecycled(context.Background(), state, ref); err != nil {
		t.Fatalf("RestoreRecycled() error = %v", err)
	}
	if notifier.count() != 1 || notifier.events[0].key.Path != "old.md" {
		t.Errorf("notifications = %+v", notifier.events)
	}

	if err := svc.PurgeRecycled(context.Background(), state, ref); remote.Classify(err) != remote.KindRejected {
		t.Errorf("PurgeRecycled() on restored note error = %v, want rejection", err)
	}

	api.recycled["gone.md"] = true
	if err := svc.PurgeRecycled(context.Background(), state, domain.NoteRef{Vault: "work", Path: "gone.md"}); err != nil {
		t.Errorf("PurgeRecycled() error = %v", err)
	}
	if notifier.count() != 1 {
		t.Errorf("purge sent a refresh")
	}
}

type mockSettingsAPI struct {
	settings domain.AdminSettings
}

func (m *mockSettingsAPI) GetSettings(ctx context.Context, token string) (*domain.AdminSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsAPI) UpdateSettings(ctx context.Context, token string, settings *domain.AdminSettings) error {
	m.settings = *settings
	return nil
}

func TestSettingsService(t *testing.T) {
	api := &mockSettingsAPI{settings: domain.AdminSettings{HistoryKeepVersions: 100}}
	svc := NewSettingsService(api)

	user := testState("s1")
	admin := testState("s2")
	admin.IsAdmin = true

	if _, err := svc.Get(context.Background(), user); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get() as user error = %v, want ErrForbidden", err)
	}
	if err := svc.Update(context.Background(), user, &domain.AdminSettings{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() as user error = %v, want ErrForbidden", err)
	}

	tests := []struct {
		name     string
		settings domain.AdminSettings
		wantErr  bool
	}{
		{name: "valid", settings: domain.AdminSettings{HistoryKeepVersions: 50, HistorySaveDelay: "10s"}},
		{name: "bad duration", settings: domain.AdminSettings{HistorySaveDelay: "soon"}, wantErr: true},
		{name: "too many versions", settings: domain.AdminSettings{HistoryKeepVersions: 5000}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Update(context.Background(), admin, &tt.settings)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	got, err := svc.Get(context.Background(), admin)
	if err != nil || got.HistoryKeepVersions != 50 {
		t.Errorf("Get() = %+v, %v", got, err)
	}
}

func TestPreferenceService_Update(t *testing.T) {
	repo := repository.NewMemoryAppStateRepository()
	svc := NewPreferenceService(repo)
	state := testState("s1")

	zh := "zh"
	size := 30
	prefs, err := svc.Update(context.Background(), state, &domain.UpdatePreferencesRequest{Lang: &zh, PageSize: &size})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if prefs.Lang != "zh" || prefs.PageSize != 30 || prefs.Theme != domain.ThemeAuto {
		t.Errorf("prefs = %+v", prefs)
	}

	stored, err := repo.Get(context.Background(), "s1")
	if err != nil || stored.Preferences != *prefs {
		t.Errorf("stored prefs = %+v, %v", stored, err)
	}

	bad := "fr"
	if _, err := svc.Update(context.Background(), state, &domain.UpdatePreferencesRequest{Lang: &bad}); err == nil {
		t.Error("Update(lang=fr) expected error")
	}
	tiny := 1
	if _, err := svc.Update(context.Background(), state, &domain.UpdatePreferencesRequest{PageSize: &tiny}); err == nil {
		t.Error("Update(page_size=1) expected error")
	}
	if state.Preferences.Lang != "zh" {
		t.Errorf("rejected update changed state: %+v", state.Preferences)
	}
}

func TestPreferenceService_RememberVault(t *testing.T) {
	repo := repository.NewMemoryAppStateRepository()
	svc := NewPreferenceService(repo)
	state := testState("s1")

	if err := svc.RememberVault(context.Background(), state, "work"); err != nil {
		t.Fatalf("RememberVault() error = %v", err)
	}
	stored, err := repo.Get(context.Background(), "s1")
	if err != nil || stored.Preferences.LastVault != "work" {
		t.Errorf("stored = %+v, %v", stored, err)
	}

	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RememberVault(context.Background(), state, "work"); err != nil {
		t.Fatalf("RememberVault() error = %v", err)
	}
	if _, err := repo.Get(context.Background(), "s1"); !errors.Is(err, repository.ErrStateNotFound) {
		t.Error("unchanged vault was written again")
	}
}
