package script_import_references

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entry = `{"group":"warrior","sequence":%s,"landmarks":[{"x":0.1,"y":0.2,"confidence":0.9}]}`

func TestDecodeArray(t *testing.T) {
	input := "  \n[" + strings.Replace(entry, "%s", "0", 1) + "," + strings.Replace(entry, "%s", "1", 1) + "]"

	requests, err := decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "warrior", requests[0].Group)
	assert.Equal(t, 1, requests[1].Sequence)
	assert.Len(t, requests[1].Landmarks, 1)
}

func TestDecodeLines(t *testing.T) {
	input := strings.Replace(entry, "%s", "3", 1) + "\n\n" + strings.Replace(entry, "%s", "4", 1) + "\n"

	requests, err := decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, 3, requests[0].Sequence)
	assert.Equal(t, 4, requests[1].Sequence)
}

func TestDecodeLinesReportsBadLine(t *testing.T) {
	input := strings.Replace(entry, "%s", "3", 1) + "\n{not json}\n"

	_, err := decode(strings.NewReader(input))
	assert.ErrorContains(t, err, "line 2")
}

func TestDecodeEmpty(t *testing.T) {
	requests, err := decode(strings.NewReader(" \n "))
	require.NoError(t, err)
	assert.Empty(t, requests)
}
