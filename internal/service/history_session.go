package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"notesync-web/internal/diff"
	"notesync-web/internal/domain"
	"notesync-web/internal/metrics"
	"notesync-web/internal/remote"
)

type HistoryState int

const (
	HistoryClosed HistoryState = iota
	HistoryListLoading
	HistoryListLoaded
	HistoryDetailLoading
	HistoryDetailLoaded
	HistoryRestoring
)

func (s HistoryState) String() string {
	switch s {
	case HistoryListLoading:
		return "list_loading"
	case HistoryListLoaded:
		return "list_loaded"
	case HistoryDetailLoading:
		return "detail_loading"
	case HistoryDetailLoaded:
		return "detail_loaded"
	case HistoryRestoring:
		return "restoring"
	}
	return "closed"
}

var (
	ErrSessionClosed    = errors.New("history session is closed")
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrUnknownVersion   = errors.New("history version is not in the current list")
	ErrNoSelection      = errors.New("no history version selected")
	ErrSelectionChanged = errors.New("selected history version changed")
	ErrRestoreInFlight  = errors.New("restore already in progress")
	ErrStaleResponse    = errors.New("response superseded by a newer request")
)

// HistoryAPI is the part of the sync API a history session talks to.
type HistoryAPI interface {
	ListHistory(ctx context.Context, token string, key domain.HistoryKey, page, pageSize int) (*domain.HistoryList, error)
	GetHistory(ctx context.Context, token, vault string, id int64) (*domain.HistoryDetail, error)
	RestoreHistory(ctx context.Context, token, vault string, id int64) error
}

const (
	NoticeError = "error"
	NoticeInfo  = "info"
)

const restoreSlowMessage = "restore is taking longer than expected"

type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func noticeFor(err error) *Notice {
	if remote.Classify(err) == remote.KindEmpty {
		return nil
	}
	return &Notice{Kind: NoticeError, Message: remote.Message(err)}
}

type HistoryOptions struct {
	PageSize       int
	RestoreTimeout time.Duration
	ChangedOnly    bool
	// OnRestored runs once per opening of the session, after the sync
	// API accepted a restore.
	OnRestored func(entry domain.HistoryEntry)
	// OnRestoreSlow runs when RestoreTimeout passes with the restore of
	// entry still unanswered.
	OnRestoreSlow func(entry domain.HistoryEntry)
}

// HistorySession is the history view of one note. Fetches run without the
// lock held; their results are applied only while the session is open and
// no newer fetch of the same kind has started.
type HistorySession struct {
	api   HistoryAPI
	token string
	key   domain.HistoryKey
	opts  HistoryOptions

	mu             sync.Mutex
	open           bool
	epoch          uint64
	refreshedEpoch uint64
	listGen        uint64
	detailGen      uint64
	restoreGen     uint64
	listLoading    bool
	detailLoading  bool
	restoring      bool
	restoreTimer   *time.Timer

	entries      []domain.HistoryEntry
	pager        domain.Pager
	selected     *domain.HistoryEntry
	detail       *domain.HistoryDetail
	lines        []domain.LineGroup
	changedOnly  bool
	showOriginal bool
	notice       *Notice
}

func NewHistorySession(api HistoryAPI, token string, key domain.HistoryKey, opts HistoryOptions) *HistorySession {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.RestoreTimeout <= 0 {
		opts.RestoreTimeout = 5 * time.Second
	}
	return &HistorySession{
		api:   api,
		token: token,
		key:   key,
		opts:  opts,
	}
}

func (s *HistorySession) Key() domain.HistoryKey {
	return s.key
}

// Open resets the session and loads the first page. A failed fetch leaves
// the session open with an empty list.
func (s *HistorySession) Open(ctx context.Context) error {
	s.mu.Lock()
	s.stopRestoreTimerLocked()
	s.open = true
	s.epoch++
	s.listGen++
	s.detailGen++
	s.restoring = false
	s.entries = nil
	s.pager = domain.Pager{}
	s.clearDetailLocked()
	s.changedOnly = s.opts.ChangedOnly
	s.showOriginal = false
	s.notice = nil
	s.mu.Unlock()

	return s.loadPage(ctx, 1)
}

func (s *HistorySession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *HistorySession) closeLocked() {
	if !s.open {
		return
	}
	s.open = false
	s.listGen++
	s.detailGen++
	s.stopRestoreTimerLocked()
	s.restoring = false
	s.listLoading = false
	s.detailLoading = false
	s.entries = nil
	s.pager = domain.Pager{}
	s.clearDetailLocked()
	s.notice = nil
}

func (s *HistorySession) clearDetailLocked() {
	s.detailLoading = false
	s.selected = nil
	s.detail = nil
	s.lines = nil
}

// SetPage loads page n. Pages outside 1..TotalPages are rejected without a
// request; page 1 is always allowed so a failed first load can be retried.
func (s *HistorySession) SetPage(ctx context.Context, n int) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if n < 1 || (n > 1 && n > s.pager.TotalPages()) {
		s.mu.Unlock()
		return ErrPageOutOfRange
	}
	s.mu.Unlock()

	return s.loadPage(ctx, n)
}

func (s *HistorySession) loadPage(ctx context.Context, page int) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.listGen++
	gen := s.listGen
	s.listLoading = true
	s.mu.Unlock()

	list, err := s.api.ListHistory(ctx, s.token, s.key, page, s.opts.PageSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || gen != s.listGen {
		metrics.HistoryStaleResponses.WithLabelValues("list").Inc()
		return ErrStaleResponse
	}
	s.listLoading = false

	if err != nil {
		s.entries = nil
		s.pager = domain.Pager{Page: page, PageSize: s.opts.PageSize}
		s.notice = noticeFor(err)
		return err
	}

	s.entries = list.List
	s.pager = list.Pager
	if s.pager.Page == 0 {
		s.pager.Page = page
	}
	if s.pager.PageSize == 0 {
		s.pager.PageSize = s.opts.PageSize
	}
	s.notice = nil
	return nil
}

// Select loads the diff of one version from the current list.
func (s *HistorySession) Select(ctx context.Context, historyID int64) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	var entry *domain.HistoryEntry
	for i := range s.entries {
		if s.entries[i].ID == historyID {
			e := s.entries[i]
			entry = &e
			break
		}
	}
	if entry == nil {
		s.mu.Unlock()
		return ErrUnknownVersion
	}

	s.detailGen++
	gen := s.detailGen
	s.clearDetailLocked()
	s.detailLoading = true
	s.selected = entry
	s.mu.Unlock()

	detail, err := s.api.GetHistory(ctx, s.token, s.key.Vault, historyID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || gen != s.detailGen {
		metrics.HistoryStaleResponses.WithLabelValues("detail").Inc()
		return ErrStaleResponse
	}

	if err != nil {
		s.clearDetailLocked()
		s.notice = noticeFor(err)
		return err
	}

	s.detailLoading = false
	s.detail = detail
	s.lines = diff.Normalize(detail.Diffs)
	s.notice = nil
	return nil
}

// SetChangedOnly and SetShowOriginal are mutually exclusive: turning one
// on turns the other off.
func (s *HistorySession) SetChangedOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changedOnly = on
	if on {
		s.showOriginal = false
	}
}

func (s *HistorySession) SetShowOriginal(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showOriginal = on
	if on {
		s.changedOnly = false
	}
}

// OriginalContent returns the full snapshot of the selected version.
func (s *HistorySession) OriginalContent() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return "", ErrSessionClosed
	}
	if s.detail == nil {
		return "", ErrNoSelection
	}
	return s.detail.Content, nil
}

// Restore asks the sync API to make the selected version current. The
// caller names the version it showed the user; any other selection is
// refused with ErrSelectionChanged. On success the session closes and
// OnRestored fires. The restore action is re-enabled after RestoreTimeout
// even if the request never returns.
func (s *HistorySession) Restore(ctx context.Context, historyID int64) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.detail == nil || s.selected == nil {
		s.mu.Unlock()
		return ErrNoSelection
	}
	if s.selected.ID != historyID {
		s.mu.Unlock()
		return ErrSelectionChanged
	}
	if s.restoring {
		s.mu.Unlock()
		return ErrRestoreInFlight
	}

	s.restoring = true
	s.restoreGen++
	gen := s.restoreGen
	epoch := s.epoch
	entry := *s.selected
	s.restoreTimer = time.AfterFunc(s.opts.RestoreTimeout, func() {
		s.restoreTimedOut(gen, entry)
	})
	s.mu.Unlock()

	err := s.api.RestoreHistory(ctx, s.token, s.key.Vault, entry.ID)

	s.mu.Lock()
	if gen == s.restoreGen {
		s.stopRestoreTimerLocked()
		s.restoring = false
	}

	if err != nil {
		outcome := metrics.OutcomeNetwork
		if remote.Classify(err) == remote.KindRejected {
			outcome = metrics.OutcomeRejected
		}
		metrics.HistoryRestores.WithLabelValues(outcome).Inc()
		if s.open && epoch == s.epoch {
			s.notice = noticeFor(err)
		}
		s.mu.Unlock()
		return err
	}

	metrics.HistoryRestores.WithLabelValues(metrics.OutcomeOK).Inc()

	if epoch == s.epoch {
		s.closeLocked()
	}
	fire := s.refreshedEpoch != epoch
	s.refreshedEpoch = epoch
	s.mu.Unlock()

	if fire && s.opts.OnRestored != nil {
		s.opts.OnRestored(entry)
	}
	return nil
}

func (s *HistorySession) restoreTimedOut(gen uint64, entry domain.HistoryEntry) {
	s.mu.Lock()
	if gen != s.restoreGen || !s.restoring {
		s.mu.Unlock()
		return
	}
	s.restoring = false
	s.restoreTimer = nil
	if s.open {
		s.notice = &Notice{Kind: NoticeInfo, Message: restoreSlowMessage}
	}
	s.mu.Unlock()

	if s.opts.OnRestoreSlow != nil {
		s.opts.OnRestoreSlow(entry)
	}
}

func (s *HistorySession) stopRestoreTimerLocked() {
	if s.restoreTimer != nil {
		s.restoreTimer.Stop()
		s.restoreTimer = nil
	}
}

type HistoryView struct {
	State        HistoryState          `json:"state"`
	Key          domain.HistoryKey     `json:"key"`
	Entries      []domain.HistoryEntry `json:"entries"`
	Pager        domain.Pager          `json:"pager"`
	TotalPages   int                   `json:"totalPages"`
	Selected     *domain.HistoryEntry  `json:"selected,omitempty"`
	Detail       *domain.HistoryDetail `json:"detail,omitempty"`
	Lines        []domain.LineGroup    `json:"lines,omitempty"`
	ChangedOnly  bool                  `json:"changedOnly"`
	ShowOriginal bool                  `json:"showOriginal"`
	Restoring    bool                  `json:"restoring"`
	CanRestore   bool                  `json:"canRestore"`
	Notice       *Notice               `json:"notice,omitempty"`
}

func (v HistoryView) HasPrev() bool {
	return v.Pager.Page > 1
}

func (v HistoryView) HasNext() bool {
	return v.Pager.Page < v.TotalPages
}

func (s *HistorySession) State() HistoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *HistorySession) stateLocked() HistoryState {
	switch {
	case !s.open:
		return HistoryClosed
	case s.restoring:
		return HistoryRestoring
	case s.detailLoading:
		return HistoryDetailLoading
	case s.listLoading:
		return HistoryListLoading
	case s.detail != nil:
		return HistoryDetailLoaded
	}
	return HistoryListLoaded
}

// View returns a snapshot safe to render while the session keeps changing.
func (s *HistorySession) View() HistoryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := HistoryView{
		State:        s.stateLocked(),
		Key:          s.key,
		Entries:      append([]domain.HistoryEntry(nil), s.entries...),
		Pager:        s.pager,
		TotalPages:   s.pager.TotalPages(),
		Lines:        s.lines,
		ChangedOnly:  s.changedOnly,
		ShowOriginal: s.showOriginal,
		Restoring:    s.restoring,
		CanRestore:   s.open && s.detail != nil && !s.restoring,
	}
	if s.selected != nil {
		sel := *s.selected
		v.Selected = &sel
	}
	if s.detail != nil {
		d := *s.detail
		v.Detail = &d
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	return v
}
