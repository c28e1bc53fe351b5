package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/core/session"
)

func TestSessionList(t *testing.T) {
	registry := session.NewRegistry(&appconfig.Config{ConfigSpec: appconfig.ConfigSpec{SessionIdleTTL: time.Minute}})
	p := testPipeline(t)
	s := NewSession(registry, nil, p, nil)

	assert.Empty(t, s.List())

	first := s.Create()
	time.Sleep(time.Millisecond)
	second := s.Create()
	second.SetReference(referenceOf(p, testPose()))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].SessionID)
	assert.Empty(t, list[0].ReferenceID)
	assert.Equal(t, second.ID, list[1].SessionID)
	assert.Equal(t, "ref-1", list[1].ReferenceID)
	assert.Equal(t, 2, s.Count())
}
