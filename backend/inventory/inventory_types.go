package inventory

import (
	"errors"
	"fmt"
	"strings"

	"stockdash/models"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidDraft = errors.New("invalid item")
)

const entityType = "inventory_item"

// ActorHeader names the caller recorded in the audit log. There is no
// authentication, so the value is taken as given.
const ActorHeader = "X-Actor"

type errorBody struct {
	Detail string `json:"detail"`
}

type statusBody struct {
	Status string `json:"status"`
}

// ValidateDraft rejects drafts the store would accept but the dashboard could
// never display meaningfully.
func ValidateDraft(d models.Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDraft)
	}
	return nil
}
