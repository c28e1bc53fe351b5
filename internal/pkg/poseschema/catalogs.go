package poseschema

// BlazePose33 landmark indices.
const (
	BPNose = iota
	BPLeftEyeInner
	BPLeftEye
	BPLeftEyeOuter
	BPRightEyeInner
	BPRightEye
	BPRightEyeOuter
	BPLeftEar
	BPRightEar
	BPMouthLeft
	BPMouthRight
	BPLeftShoulder
	BPRightShoulder
	BPLeftElbow
	BPRightElbow
	BPLeftWrist
	BPRightWrist
	BPLeftPinky
	BPRightPinky
	BPLeftIndex
	BPRightIndex
	BPLeftThumb
	BPRightThumb
	BPLeftHip
	BPRightHip
	BPLeftKnee
	BPRightKnee
	BPLeftAnkle
	BPRightAnkle
	BPLeftHeel
	BPRightHeel
	BPLeftFootIndex
	BPRightFootIndex
	bpSize
)

// COCO15 landmark indices, the OpenPose COCO body subset.
const (
	COCONose = iota
	COCONeck
	COCORightShoulder
	COCORightElbow
	COCORightWrist
	COCOLeftShoulder
	COCOLeftElbow
	COCOLeftWrist
	COCORightHip
	COCORightKnee
	COCORightAnkle
	COCOLeftHip
	COCOLeftKnee
	COCOLeftAnkle
	COCOMidHip
	cocoSize
)

// BlazePose33 is the 33-point MediaPipe body catalog.
var BlazePose33 = &Schema{
	Name:         "blazepose33",
	Size:         bpSize,
	MinLandmarks: bpSize,
	Angles: []AngleDefinition{
		{Joint: LeftElbow, A: BPLeftShoulder, Vertex: BPLeftElbow, B: BPLeftWrist},
		{Joint: RightElbow, A: BPRightShoulder, Vertex: BPRightElbow, B: BPRightWrist},
		{Joint: LeftShoulder, A: BPLeftElbow, Vertex: BPLeftShoulder, B: BPLeftHip},
		{Joint: RightShoulder, A: BPRightElbow, Vertex: BPRightShoulder, B: BPRightHip},
		{Joint: LeftHip, A: BPLeftShoulder, Vertex: BPLeftHip, B: BPLeftKnee},
		{Joint: RightHip, A: BPRightShoulder, Vertex: BPRightHip, B: BPRightKnee},
		{Joint: LeftKnee, A: BPLeftHip, Vertex: BPLeftKnee, B: BPLeftAnkle},
		{Joint: RightKnee, A: BPRightHip, Vertex: BPRightKnee, B: BPRightAnkle},
		{Joint: LeftAnkle, A: BPLeftKnee, Vertex: BPLeftAnkle, B: BPLeftFootIndex},
		{Joint: RightAnkle, A: BPRightKnee, Vertex: BPRightAnkle, B: BPRightFootIndex},
	},
	Bones: []Bone{
		{BPLeftShoulder, BPRightShoulder},
		{BPLeftShoulder, BPLeftElbow},
		{BPLeftElbow, BPLeftWrist},
		{BPRightShoulder, BPRightElbow},
		{BPRightElbow, BPRightWrist},
		{BPLeftHip, BPRightHip},
		{BPLeftShoulder, BPLeftHip},
		{BPRightShoulder, BPRightHip},
		{BPLeftHip, BPLeftKnee},
		{BPLeftKnee, BPLeftAnkle},
		{BPRightHip, BPRightKnee},
		{BPRightKnee, BPRightAnkle},
	},
	LandmarkNames: []string{
		"nose", "left_eye_inner", "left_eye", "left_eye_outer", "right_eye_inner", "right_eye",
		"right_eye_outer", "left_ear", "right_ear", "mouth_left", "mouth_right", "left_shoulder",
		"right_shoulder", "left_elbow", "right_elbow", "left_wrist", "right_wrist", "left_pinky",
		"right_pinky", "left_index", "right_index", "left_thumb", "right_thumb", "left_hip",
		"right_hip", "left_knee", "right_knee", "left_ankle", "right_ankle", "left_heel",
		"right_heel", "left_foot_index", "right_foot_index",
	},
}

// COCO15 is the 15-point OpenPose body catalog. Shoulders and hips are measured from the neck.
var COCO15 = &Schema{
	Name:         "coco15",
	Size:         cocoSize,
	MinLandmarks: cocoSize,
	Angles: []AngleDefinition{
		{Joint: LeftElbow, A: COCOLeftShoulder, Vertex: COCOLeftElbow, B: COCOLeftWrist},
		{Joint: RightElbow, A: COCORightShoulder, Vertex: COCORightElbow, B: COCORightWrist},
		{Joint: LeftShoulder, A: COCONeck, Vertex: COCOLeftShoulder, B: COCOLeftElbow},
		{Joint: RightShoulder, A: COCONeck, Vertex: COCORightShoulder, B: COCORightElbow},
		{Joint: LeftHip, A: COCONeck, Vertex: COCOLeftHip, B: COCOLeftKnee},
		{Joint: RightHip, A: COCONeck, Vertex: COCORightHip, B: COCORightKnee},
		{Joint: LeftKnee, A: COCOLeftHip, Vertex: COCOLeftKnee, B: COCOLeftAnkle},
		{Joint: RightKnee, A: COCORightHip, Vertex: COCORightKnee, B: COCORightAnkle},
	},
	Bones: []Bone{
		{COCONeck, COCORightShoulder},
		{COCONeck, COCOLeftShoulder},
		{COCORightShoulder, COCORightElbow},
		{COCORightElbow, COCORightWrist},
		{COCOLeftShoulder, COCOLeftElbow},
		{COCOLeftElbow, COCOLeftWrist},
		{COCONeck, COCORightHip},
		{COCONeck, COCOLeftHip},
		{COCORightHip, COCORightKnee},
		{COCORightKnee, COCORightAnkle},
		{COCOLeftHip, COCOLeftKnee},
		{COCOLeftKnee, COCOLeftAnkle},
	},
	LandmarkNames: []string{
		"nose", "neck", "right_shoulder", "right_elbow", "right_wrist", "left_shoulder",
		"left_elbow", "left_wrist", "right_hip", "right_knee", "right_ankle", "left_hip",
		"left_knee", "left_ankle", "mid_hip",
	},
}
