package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"notesync-web/internal/domain"
	"notesync-web/internal/remote"
)

type listCall struct {
	page     int
	pageSize int
}

// mockHistoryAPI serves a fixed set of versions. When a gate channel is
// set the matching call blocks until it receives a value; a list gate for
// one page takes precedence over listGate.
type mockHistoryAPI struct {
	mu         sync.Mutex
	entries    []domain.HistoryEntry
	details    map[int64]*domain.HistoryDetail
	listErr    error
	detailErr  error
	restoreErr error

	listGate     chan struct{}
	listPageGate map[int]chan struct{}
	detailGate   map[int64]chan struct{}
	restoreGate  chan struct{}

	listCalls    []listCall
	detailCalls  []int64
	restoreCalls []int64
}

func newMockHistoryAPI(n int) *mockHistoryAPI {
	m := &mockHistoryAPI{
		details:      make(map[int64]*domain.HistoryDetail),
		listPageGate: make(map[int]chan struct{}),
		detailGate:   make(map[int64]chan struct{}),
	}
	for i := n; i >= 1; i-- {
		id := int64(i)
		m.entries = append(m.entries, domain.HistoryEntry{ID: id, Version: id, ClientName: "laptop"})
		m.details[id] = &domain.HistoryDetail{
			ID:      id,
			Version: id,
			Content: fmt.Sprintf("version %d\n", i),
			Diffs: []domain.DiffSegment{
				{Type: domain.DiffEqual, Text: "title\n"},
				{Type: domain.DiffDelete, Text: "old\n"},
				{Type: domain.DiffInsert, Text: "new\n"},
			},
		}
	}
	return m
}

func (m *mockHistoryAPI) ListHistory(ctx context.Context, token string, key domain.HistoryKey, page, pageSize int) (*domain.HistoryList, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, listCall{page: page, pageSize: pageSize})
	gate := m.listGate
	if pageGate, ok := m.listPageGate[page]; ok {
		gate = pageGate
	}
	err := m.listErr
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if len(m.entries) == 0 {
		return nil, remote.ErrEmptyResult
	}

	start := (page - 1) * pageSize
	if start > len(m.entries) {
		start = len(m.entries)
	}
	end := start + pageSize
	if end > len(m.entries) {
		end = len(m.entries)
	}
	return &domain.HistoryList{
		List:  append([]domain.HistoryEntry(nil), m.entries[start:end]...),
		Pager: domain.Pager{Page: page, PageSize: pageSize, TotalRows: len(m.entries)},
	}, nil
}

func (m *mockHistoryAPI) GetHistory(ctx context.Context, token, vault string, id int64) (*domain.HistoryDetail, error) {
	m.mu.Lock()
	m.detailCalls = append(m.detailCalls, id)
	gate := m.detailGate[id]
	err := m.detailErr
	detail, ok := m.details[id]
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &remote.ServerRejection{Endpoint: "history.get", Code: 404, Message: "history not found"}
	}
	d := *detail
	return &d, nil
}

func (m *mockHistoryAPI) RestoreHistory(ctx context.Context, token, vault string, id int64) error {
	m.mu.Lock()
	m.restoreCalls = append(m.restoreCalls, id)
	gate := m.restoreGate
	err := m.restoreErr
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (m *mockHistoryAPI) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listCalls)
}

func (m *mockHistoryAPI) restoreCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.restoreCalls)
}

var errNetwork = &remote.NetworkFailure{Endpoint: "test", Err: errors.New("connection refused")}

type refreshEvent struct {
	userUID int64
	key     domain.HistoryKey
	version int64
}

type toastEvent struct {
	userUID int64
	kind    string
	text    string
}

type mockNotifier struct {
	mu     sync.Mutex
	events []refreshEvent
	toasts []toastEvent
}

func (m *mockNotifier) NotifyToast(userUID int64, kind, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append(m.toasts, toastEvent{userUID: userUID, kind: kind, text: text})
}

func (m *mockNotifier) toastCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

func (m *mockNotifier) toastAt(i int) toastEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toasts[i]
}

func (m *mockNotifier) NotifyNoteRefresh(userUID int64, key domain.HistoryKey, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, refreshEvent{userUID: userUID, key: key, version: version})
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
