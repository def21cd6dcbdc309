package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"notesync-web/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var ErrStateNotFound = errors.New("app state not found")

// AppStateRepository is the only place session tokens and UI preferences
// are read or written.
type AppStateRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.AppState, error)
	Save(ctx context.Context, state *domain.AppState) error
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

const appStateDocType = "app_state"

type appStateDoc struct {
	ID          string `json:"_id"`
	Rev         string `json:"_rev,omitempty"`
	Type        string `json:"type"`
	ExpiresUnix int64  `json:"expires_unix"`
	domain.AppState
}

type couchAppStateRepository struct {
	client *kivik.Client
	dbName string
}

func NewCouchAppStateRepository(client *kivik.Client, dbName string) AppStateRepository {
	return &couchAppStateRepository{
		client: client,
		dbName: dbName,
	}
}

func appStateDocID(sessionID string) string {
	return fmt.Sprintf("app_state:%s", sessionID)
}

func (r *couchAppStateRepository) Get(ctx context.Context, sessionID string) (*domain.AppState, error) {
	db := r.client.DB(r.dbName)

	var doc appStateDoc
	if err := db.Get(ctx, appStateDocID(sessionID)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to get app state: %w", err)
	}

	state := doc.AppState
	return &state, nil
}

func (r *couchAppStateRepository) Save(ctx context.Context, state *domain.AppState) error {
	db := r.client.DB(r.dbName)
	docID := appStateDocID(state.SessionID)

	doc := appStateDoc{
		ID:       docID,
		Type:     appStateDocType,
		AppState: *state,
	}
	if !state.ExpiresAt.IsZero() {
		doc.ExpiresUnix = state.ExpiresAt.Unix()
	}

	rev, err := db.GetRev(ctx, docID)
	switch {
	case err == nil:
		doc.Rev = rev
	case kivik.HTTPStatus(err) != http.StatusNotFound:
		return fmt.Errorf("failed to fetch app state revision: %w", err)
	}

	if _, err := db.Put(ctx, docID, doc); err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}

	return nil
}

func (r *couchAppStateRepository) Delete(ctx context.Context, sessionID string) error {
	db := r.client.DB(r.dbName)
	docID := appStateDocID(sessionID)

	rev, err := db.GetRev(ctx, docID)
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to fetch app state revision: %w", err)
	}

	if _, err := db.Delete(ctx, docID, rev); err != nil {
		return fmt.Errorf("failed to delete app state: %w", err)
	}

	return nil
}

func (r *couchAppStateRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"type": appStateDocType,
			"expires_unix": map[string]interface{}{
				"$gt": 0,
				"$lt": now.Unix(),
			},
		},
		"fields": []string{"_id", "_rev"},
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to query expired app state: %w", err)
	}
	defer rows.Close()

	deleted := 0
	for rows.Next() {
		var doc struct {
			ID  string `json:"_id"`
			Rev string `json:"_rev"`
		}
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		if _, err := db.Delete(ctx, doc.ID, doc.Rev); err != nil {
			return deleted, fmt.Errorf("failed to delete expired app state: %w", err)
		}
		deleted++
	}

	return deleted, rows.Err()
}
