// Package assessments persists completed assessments. Each kind lives in its
// own table, named by the kind's assessment.Spec. Rows are insert-only.
package assessments

import (
	"context"

	"github.com/dmitrijs2005/smehub/internal/assessment"
)

type Repository interface {
	// Latest returns the most recently completed assessment of kind for
	// userID, or common.ErrorNotFound.
	Latest(ctx context.Context, kind assessment.Kind, userID string) (*assessment.Assessment, error)

	// Get returns one assessment by id, or common.ErrorNotFound.
	Get(ctx context.Context, kind assessment.Kind, id string) (*assessment.Assessment, error)

	// Insert stores a as a new row and fills in ID and CompletedAt.
	Insert(ctx context.Context, a *assessment.Assessment) error
}
