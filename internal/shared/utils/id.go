package utils

import (
	"github.com/google/uuid"

	"bloglist-backend/internal/shared/apperr"
)

// ParseID parses a path identifier; malformed ids yield apperr.InvalidID.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidID(raw).WithCause(err)
	}
	return id, nil
}
