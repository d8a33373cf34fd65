package entries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/echovault/internal/client/models"
)

// Repository describes the record service operations on entries.
type Repository interface {
	// Query returns the entries owned by ownerID, newest first.
	Query(ctx context.Context, ownerID string) ([]models.Entry, error)

	// Insert stores e and returns the stored entry with its assigned ID and
	// CreatedAt. An empty ID gets a fresh UUID, a zero CreatedAt becomes now.
	Insert(ctx context.Context, e *models.Entry) (*models.Entry, error)

	// DeleteByID removes the entry. It returns common.ErrNotFound if no row
	// was deleted.
	DeleteByID(ctx context.Context, id string) error
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
