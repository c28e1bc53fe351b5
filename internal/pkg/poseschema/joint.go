package poseschema

import (
	"fmt"
	"strings"
)

// Joint names a measured joint angle. The set is closed: every schema catalog
// entry uses one of the constants below.
type Joint uint8

const (
	JointUnknown Joint = iota
	LeftElbow
	RightElbow
	LeftShoulder
	RightShoulder
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	jointSentinel
)

var jointNames = [...]string{
	JointUnknown:  "unknown",
	LeftElbow:     "left_elbow",
	RightElbow:    "right_elbow",
	LeftShoulder:  "left_shoulder",
	RightShoulder: "right_shoulder",
	LeftHip:       "left_hip",
	RightHip:      "right_hip",
	LeftKnee:      "left_knee",
	RightKnee:     "right_knee",
	LeftAnkle:     "left_ankle",
	RightAnkle:    "right_ankle",
}

func (j Joint) String() string {
	if j >= jointSentinel {
		return jointNames[JointUnknown]
	}
	return jointNames[j]
}

// Humanized returns the joint name as used in feedback sentences, e.g. "left elbow".
func (j Joint) Humanized() string {
	return strings.ReplaceAll(j.String(), "_", " ")
}

func (j Joint) Valid() bool {
	return j > JointUnknown && j < jointSentinel
}

func ParseJoint(s string) (Joint, error) {
	for j := LeftElbow; j < jointSentinel; j++ {
		if jointNames[j] == s {
			return j, nil
		}
	}
	return JointUnknown, fmt.Errorf("poseschema: unknown joint %q", s)
}

func (j Joint) MarshalText() ([]byte, error) {
	if !j.Valid() {
		return nil, fmt.Errorf("poseschema: cannot marshal invalid joint %d", j)
	}
	return []byte(j.String()), nil
}

func (j *Joint) UnmarshalText(text []byte) error {
	parsed, err := ParseJoint(string(text))
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// Joints returns every valid joint in declaration order.
func Joints() []Joint {
	joints := make([]Joint, 0, int(jointSentinel)-1)
	for j := LeftElbow; j < jointSentinel; j++ {
		joints = append(joints, j)
	}
	return joints
}
