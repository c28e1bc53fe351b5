// Package comparator scores a live angle map against a reference angle map.
package comparator

import (
	"math"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

type Policy struct {
	// Tolerance is the allowed deviation as a fraction of the reference angle, e.g. 0.2.
	Tolerance float64
	// Threshold is the accuracy percentage at or above which the overall label is "correct".
	Threshold float64
	// Schema decides the order verdicts are reported in. Joints unknown to the schema
	// are not compared.
	Schema *poseschema.Schema
}

func DefaultPolicy() Policy {
	return Policy{
		Tolerance: 0.20,
		Threshold: 80,
		Schema:    poseschema.BlazePose33,
	}
}

// ToleranceDegrees is the tolerance band for a joint whose reference angle is ref.
func (p Policy) ToleranceDegrees(ref float64) float64 {
	return p.Tolerance * math.Abs(ref)
}

// Compare produces a verdict for every joint present in both maps. Joints only present in
// reference are neither reported nor counted. Either map being empty yields no verdicts
// and zero accuracy.
func Compare(current, reference model.AngleMap, policy Policy) *model.ComparisonResult {
	result := &model.ComparisonResult{
		Verdicts:     []*model.JointVerdict{},
		OverallLabel: model.OverallWrong,
	}
	if len(current) == 0 || len(reference) == 0 {
		return result
	}

	for _, def := range policy.Schema.Angles {
		ref, ok := reference[def.Joint]
		if !ok {
			continue
		}
		cur, ok := current[def.Joint]
		if !ok {
			continue
		}

		result.Verdicts = append(result.Verdicts, Judge(def.Joint, cur, ref, policy))
	}

	result.Comparable = len(result.Verdicts)
	for _, v := range result.Verdicts {
		if v.IsCorrect {
			result.Correct++
		}
	}
	result.AccuracyPercent = Accuracy(result.Correct, result.Comparable)
	if result.Comparable > 0 && result.AccuracyPercent >= policy.Threshold {
		result.OverallLabel = model.OverallCorrect
	}

	return result
}

// Judge compares a single joint.
func Judge(joint poseschema.Joint, cur, ref float64, policy Policy) *model.JointVerdict {
	tol := policy.ToleranceDegrees(ref)
	dev := cur - ref

	v := &model.JointVerdict{
		Joint:            joint,
		ReferenceAngle:   ref,
		CurrentAngle:     cur,
		DeviationDegrees: dev,
		ToleranceDegrees: tol,
		IsCorrect:        math.Abs(dev) <= tol,
	}
	switch {
	case dev > tol:
		v.Direction = model.DirectionStraighten
	case dev < -tol:
		v.Direction = model.DirectionBend
	}
	v.Hint = Hint(v)

	return v
}

func Accuracy(correct, comparable int) float64 {
	if comparable == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(comparable)
}
