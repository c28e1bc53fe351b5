package v1

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/core/session"
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
	"exusiai.dev/posecoach/internal/server/httpserver"
	"exusiai.dev/posecoach/internal/server/svr"
	"exusiai.dev/posecoach/internal/service"
	"exusiai.dev/posecoach/internal/util/comparator"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{
		PoseSchema:                "blazepose33",
		PoseAngleFormulation:      "cosine",
		PoseTolerance:             0.2,
		PoseCorrectThreshold:      80,
		PoseLandmarkMinConfidence: 0.5,
		PoseVisibleFraction:       0.6,
		SessionIdleTTL:            time.Minute,
		FeedbackStreamInterval:    10 * time.Millisecond,
	}}
}

// testApp wires the session and compare routes against in-memory sessions. References are
// only given inline, so no storage is needed.
func testApp(t *testing.T) *fiber.App {
	conf := testConfig()

	pipeline, err := service.NewPipeline(conf)
	require.NoError(t, err)
	references := service.NewReference(nil, pipeline, nil)
	sessions := service.NewSession(session.NewRegistry(conf), references, pipeline, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpserver.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	v1 := &svr.V1{Router: app.Group("/api/v1")}
	RegisterSession(v1, Session{Config: conf, SessionService: sessions})
	RegisterCompare(v1, Compare{ReferenceService: references, PipelineService: pipeline})

	return app
}

func testPose() model.LandmarkSnapshot {
	s := make(model.LandmarkSnapshot, poseschema.BlazePose33.Size)
	for i := range s {
		s[i] = &model.Landmark{
			X:          0.1 + 0.8*float64(i%5)/4,
			Y:          0.05 + 0.9*float64(i)/32,
			Confidence: 0.9,
		}
	}
	return s
}

func frameBody(landmarks model.LandmarkSnapshot, width int) fiber.Map {
	return fiber.Map{
		"frameId":   "frame-1",
		"landmarks": landmarks,
		"width":     width,
		"height":    480,
	}
}

func do(t *testing.T, app *fiber.App, method, target string, body any) (int, string) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestSessionFlow(t *testing.T) {
	app := testApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status, body)
	id := gjson.Get(body, "sessionId").String()
	require.Len(t, id, 20)
	base := "/api/v1/sessions/" + id

	status, body = do(t, app, http.MethodGet, base+"/feedback", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", gjson.Get(body, "status").String())

	// no reference yet: the skeleton is still reported
	status, body = do(t, app, http.MethodPost, base+"/frames", frameBody(testPose(), 640))
	assert.Equal(t, http.StatusPreconditionFailed, status, body)
	assert.Equal(t, "NO_ACTIVE_REFERENCE", gjson.Get(body, "code").String())
	assert.Equal(t, "no_reference", gjson.Get(body, "feedback.status").String())
	assert.True(t, gjson.Get(body, "feedback.skeleton.#").Int() > 0)

	status, body = do(t, app, http.MethodPut, base+"/reference", fiber.Map{"landmarks": testPose()})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "blazepose33", gjson.Get(body, "schema").String())

	status, body = do(t, app, http.MethodPost, base+"/frames", frameBody(testPose(), 640))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "ok", gjson.Get(body, "status").String())
	assert.Equal(t, 100.0, gjson.Get(body, "accuracyPercent").Float())
	assert.Equal(t, comparator.GoodPosture, gjson.Get(body, "summary").String())
	assert.Equal(t, int64(2), gjson.Get(body, "sequence").Int())
	assert.True(t, gjson.Get(body, "joints.0.pixelPosition").Exists())

	status, body = do(t, app, http.MethodGet, base+"/feedback", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), gjson.Get(body, "sequence").Int())
	assert.Equal(t, "frame-1", gjson.Get(body, "frameId").String())

	status, _ = do(t, app, http.MethodDelete, base+"/reference", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodGet, base+"/reference", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, app, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, body = do(t, app, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", gjson.Get(body, "code").String())
}

func TestSubmitFrameRejections(t *testing.T) {
	app := testApp(t)

	_, body := do(t, app, http.MethodPost, "/api/v1/sessions", nil)
	base := "/api/v1/sessions/" + gjson.Get(body, "sessionId").String()

	status, body := do(t, app, http.MethodPost, base+"/frames", frameBody(testPose(), 0))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MALFORMED_INPUT", gjson.Get(body, "code").String())

	status, body = do(t, app, http.MethodPost, base+"/frames", frameBody(nil, 640))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "POSE_NOT_DETECTED", gjson.Get(body, "code").String())
	assert.Equal(t, "undetected", gjson.Get(body, "feedback.status").String())

	pose := testPose()
	for i := 0; i < 20; i++ {
		pose[i].Confidence = 0.1
	}
	status, body = do(t, app, http.MethodPost, base+"/frames", frameBody(pose, 640))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INCOMPLETE_CAPTURE", gjson.Get(body, "code").String())
	assert.Equal(t, int64(13), gjson.Get(body, "visible").Int())

	// rejected frames still replace the latest feedback
	_, body = do(t, app, http.MethodGet, base+"/feedback", nil)
	assert.Equal(t, "incomplete", gjson.Get(body, "status").String())
}

func TestSessionParamValidation(t *testing.T) {
	app := testApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/sessions/not-a-session", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", gjson.Get(body, "code").String())

	status, _ = do(t, app, http.MethodGet, "/api/v1/sessions/cnp0000000000000000a/feedback", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCompare(t *testing.T) {
	app := testApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/compare", fiber.Map{
		"reference": fiber.Map{"landmarks": testPose()},
		"frame":     frameBody(testPose(), 640),
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "ok", gjson.Get(body, "status").String())
	assert.Equal(t, "correct", gjson.Get(body, "overallLabel").String())
	assert.Equal(t, int64(len(poseschema.BlazePose33.Angles)), gjson.Get(body, "joints.#").Int())

	status, body = do(t, app, http.MethodPost, "/api/v1/compare", fiber.Map{
		"reference": fiber.Map{"landmarks": testPose(), "referenceId": "01HQ"},
		"frame":     frameBody(testPose(), 640),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", gjson.Get(body, "code").String())
}
