package types

import (
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/posecoach/internal/model"
)

type CreateReferenceRequest struct {
	Group    string      `json:"group" validate:"required,max=64,printascii" required:"true"`
	Sequence int         `json:"sequence" validate:"gte=0,lte=100000"`
	Name     null.String `json:"name" validate:"max=128"`
	// Schema optionally names the schema the landmarks were captured with. It has to be the
	// schema this instance compares in.
	Schema    string                 `json:"schema" validate:"omitempty,poseschema"`
	Landmarks model.LandmarkSnapshot `json:"landmarks" validate:"required" required:"true"`
}

// ReferenceSelector names a reference in exactly one way: by id, by group and sequence,
// or by an inline landmark snapshot that is used without being stored.
type ReferenceSelector struct {
	ReferenceID string                 `json:"referenceId" validate:"omitempty,max=64"`
	Group       string                 `json:"group" validate:"omitempty,max=64"`
	Sequence    null.Int               `json:"sequence"`
	Landmarks   model.LandmarkSnapshot `json:"landmarks"`
}

type CompareRequest struct {
	Reference ReferenceSelector `json:"reference"`
	Frame     Frame             `json:"frame"`
}
