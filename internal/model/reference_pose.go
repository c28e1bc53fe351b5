package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// ReferencePose is a stored comparison target. It is immutable once created: a changed
// capture is stored as a new reference.
type ReferencePose struct {
	bun.BaseModel `bun:"reference_poses,alias:rp"`

	ReferenceID string      `bun:"reference_id,pk" json:"id" msgpack:"id"`
	Group       string      `bun:"group_name,notnull,unique:group_sequence" json:"group" msgpack:"group"`
	Sequence    int         `bun:"sequence,notnull,unique:group_sequence" json:"sequence" msgpack:"seq"`
	Name        null.String `bun:"name" json:"name" msgpack:"name"`

	// Schema, Formulation and CatalogHash record how Angles were derived.
	Schema      string `bun:"schema,notnull" json:"schema" msgpack:"schema"`
	Formulation string `bun:"formulation,notnull" json:"formulation" msgpack:"form"`
	CatalogHash string `bun:"catalog_hash,notnull" json:"catalogHash" msgpack:"hash"`

	Landmarks LandmarkSnapshot `bun:"landmarks,type:jsonb,notnull" json:"landmarks" msgpack:"lm"`
	Angles    AngleMap         `bun:"angles,type:jsonb,notnull" json:"angles" msgpack:"ang"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt" msgpack:"ca"`
}

// ReferenceGroup summarizes the references stored under one group.
type ReferenceGroup struct {
	Group     string `bun:"group_name" json:"group"`
	Count     int    `bun:"count" json:"count"`
	Sequences []int  `bun:"sequences,array" json:"sequences"`
}
