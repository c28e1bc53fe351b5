package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v3"
)

func TestPoseSchemaTag(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("blazepose33", "poseschema"))
	assert.NoError(t, v.Var("coco15", "poseschema"))
	assert.Error(t, v.Var("openpose25", "poseschema"))
	assert.NoError(t, v.Var("", "omitempty,poseschema"))
}

func TestNullValuers(t *testing.T) {
	v := NewValidator()

	type named struct {
		Name  null.String `validate:"max=4"`
		Count null.Int    `validate:"lte=10"`
	}

	assert.NoError(t, v.Struct(named{Name: null.StringFrom("abcd"), Count: null.IntFrom(10)}))
	assert.NoError(t, v.Struct(named{}))
	assert.Error(t, v.Struct(named{Name: null.StringFrom("abcde")}))
	assert.Error(t, v.Struct(named{Count: null.IntFrom(11)}))
}
