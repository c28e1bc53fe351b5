// Package skeleton projects normalized landmarks to pixel space.
package skeleton

import (
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

// ProjectPoint maps a normalized landmark to pixel coordinates.
func ProjectPoint(l *model.Landmark, width, height int) model.Point {
	return model.Point{
		X: l.X * float64(width),
		Y: l.Y * float64(height),
	}
}

// Project returns one segment per bone whose endpoints are both present, in bone order.
func Project(snapshot model.LandmarkSnapshot, bones []poseschema.Bone, width, height int) []model.Segment {
	segments := make([]model.Segment, 0, len(bones))
	for _, bone := range bones {
		from, to := snapshot.At(bone.From), snapshot.At(bone.To)
		if from == nil || to == nil {
			continue
		}

		segments = append(segments, model.Segment{
			From:      ProjectPoint(from, width, height),
			To:        ProjectPoint(to, width, height),
			FromIndex: bone.From,
			ToIndex:   bone.To,
		})
	}
	return segments
}

// Locate sets the pixel position of each verdict to its joint's vertex landmark. Verdicts
// whose vertex is absent are left without a position.
func Locate(verdicts []*model.JointVerdict, snapshot model.LandmarkSnapshot, schema *poseschema.Schema, width, height int) {
	for _, v := range verdicts {
		def, ok := schema.Definition(v.Joint)
		if !ok {
			continue
		}
		if l := snapshot.At(def.Vertex); l != nil {
			p := ProjectPoint(l, width, height)
			v.PixelPosition = &p
		}
	}
}
