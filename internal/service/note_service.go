package service

import (
	"context"
	"log"

	"notesync-web/internal/domain"
	"notesync-web/internal/remote"
	"notesync-web/pkg/hash"

	"github.com/go-playground/validator/v10"
)

type NoteAPI interface {
	ListVaults(ctx context.Context, token string) ([]domain.Vault, error)
	ListNotes(ctx context.Context, token string, req *domain.NoteListRequest) (*domain.NoteList, error)
	GetNote(ctx context.Context, token string, ref domain.NoteRef) (*domain.Note, error)
	ListFiles(ctx context.Context, token, vault string, page, pageSize int) (*domain.FileList, error)
	RestoreRecycle(ctx context.Context, token string, ref domain.NoteRef) error
	DeleteRecycle(ctx context.Context, token string, ref domain.NoteRef) error
}

type NoteService struct {
	api      NoteAPI
	notifier RefreshNotifier
	validate *validator.Validate
}

func NewNoteService(api NoteAPI, notifier RefreshNotifier) *NoteService {
	return &NoteService{
		api:      api,
		notifier: notifier,
		validate: domain.NewValidator(),
	}
}

func (s *NoteService) Vaults(ctx context.Context, state *domain.AppState) ([]domain.Vault, error) {
	vaults, err := s.api.ListVaults(ctx, state.Token)
	if remote.Classify(err) == remote.KindEmpty {
		return []domain.Vault{}, nil
	}
	return vaults, err
}

// List returns one page of notes, or of the recycle bin. An empty result
// is an empty page, not an error.
func (s *NoteService) List(ctx context.Context, state *domain.AppState, req *domain.NoteListRequest) (*domain.NoteList, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = pageSizeFor(state)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	list, err := s.api.ListNotes(ctx, state.Token, req)
	if remote.Classify(err) == remote.KindEmpty {
		return &domain.NoteList{Pager: domain.Pager{Page: req.Page, PageSize: req.PageSize}}, nil
	}
	return list, err
}

func (s *NoteService) Get(ctx context.Context, state *domain.AppState, ref domain.NoteRef) (*domain.Note, error) {
	if err := s.validate.Struct(ref); err != nil {
		return nil, &ValidationError{Err: err}
	}
	return s.api.GetNote(ctx, state.Token, withPathHash(ref))
}

func (s *NoteService) Files(ctx context.Context, state *domain.AppState, vault string, page int) (*domain.FileList, error) {
	if vault == "" {
		return nil, &ValidationError{Err: errVaultRequired}
	}
	if page < 1 {
		page = 1
	}
	pageSize := pageSizeFor(state)

	files, err := s.api.ListFiles(ctx, state.Token, vault, page, pageSize)
	if remote.Classify(err) == remote.KindEmpty {
		return &domain.FileList{Pager: domain.Pager{Page: page, PageSize: pageSize}}, nil
	}
	return files, err
}

// RestoreRecycled moves a note out of the recycle bin and tells the user's
// other pages to reload it.
func (s *NoteService) RestoreRecycled(ctx context.Context, state *domain.AppState, ref domain.NoteRef) error {
	if err := s.validate.Struct(ref); err != nil {
		return &ValidationError{Err: err}
	}
	ref = withPathHash(ref)

	if err := s.api.RestoreRecycle(ctx, state.Token, ref); err != nil {
		return err
	}

	log.Printf("[Note] user %d restored %s/%s from recycle bin", state.UserUID, ref.Vault, ref.Path)
	if s.notifier != nil {
		s.notifier.NotifyNoteRefresh(state.UserUID, HistoryKeyFor(ref, false), 0)
	}
	return nil
}

func (s *NoteService) PurgeRecycled(ctx context.Context, state *domain.AppState, ref domain.NoteRef) error {
	if err := s.validate.Struct(ref); err != nil {
		return &ValidationError{Err: err}
	}
	ref = withPathHash(ref)

	if err := s.api.DeleteRecycle(ctx, state.Token, ref); err != nil {
		return err
	}

	log.Printf("[Note] user %d purged %s/%s", state.UserUID, ref.Vault, ref.Path)
	return nil
}

func withPathHash(ref domain.NoteRef) domain.NoteRef {
	if ref.PathHash == "" && ref.Path != "" {
		ref.PathHash = hash.PathHash(ref.Path)
	}
	return ref
}

func pageSizeFor(state *domain.AppState) int {
	if state != nil && state.Preferences.PageSize > 0 {
		return state.Preferences.PageSize
	}
	return domain.DefaultPreferences().PageSize
}
