// Package angleutil derives joint angle maps from landmark snapshots.
package angleutil

import (
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

type Options struct {
	Formulation Formulation
	// MinConfidence is the confidence a landmark needs to take part in an angle.
	// Zero accepts every present landmark.
	MinConfidence float64
}

func DefaultOptions() Options {
	return Options{
		Formulation:   FormulationCosine,
		MinConfidence: 0.5,
	}
}

// Usable reports whether l is present and confident enough under opts.
func (o Options) Usable(l *model.Landmark) bool {
	return l != nil && l.Confidence >= o.MinConfidence
}

// Extract measures every angle of schema's catalog on snapshot. An angle with any unusable
// landmark is left out of the map, and a snapshot shorter than the schema's MinLandmarks
// yields an empty map.
func Extract(snapshot model.LandmarkSnapshot, schema *poseschema.Schema, opts Options) model.AngleMap {
	angles := make(model.AngleMap, len(schema.Angles))
	if len(snapshot) < schema.MinLandmarks {
		return angles
	}

	for _, def := range schema.Angles {
		a, v, b := snapshot.At(def.A), snapshot.At(def.Vertex), snapshot.At(def.B)
		if !opts.Usable(a) || !opts.Usable(v) || !opts.Usable(b) {
			continue
		}

		angles[def.Joint] = Included(
			opts.Formulation,
			model.Point{X: a.X, Y: a.Y},
			model.Point{X: v.X, Y: v.Y},
			model.Point{X: b.X, Y: b.Y},
		)
	}

	return angles
}
