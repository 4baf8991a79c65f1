package chainplan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainsAndReports(t *testing.T) {
	input := strings.Join([]string{
		`{"object_type":"demod_chain","object_name":"afsk1200","plan_version":"1.0","modem":{"type":"afsk","config":"1200"},"slicer":{"type":"binary"},"codec":{"type":"ax25"}}`,
		`{"object_type":"report","style":"decoded_headers"}`,
	}, "\n")

	plan, err := parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, plan.Chains, 1)
	require.Len(t, plan.Reports, 1)
	assert.Equal(t, "afsk1200", plan.Chains[0].ObjectName)
	assert.Equal(t, "afsk", plan.Chains[0].Modem.Type)
	assert.Equal(t, "decoded_headers", plan.Reports[0].Style)
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	input := `{"object_type":"demod_chain","object_name":"x","plan_version":"2.0","modem":{"type":"afsk","config":"1200"},"slicer":{"type":"binary"},"codec":{"type":"ax25"}}`
	_, err := parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParseRejectsUnknownObjectType(t *testing.T) {
	input := `{"object_type":"frobnicate"}`
	_, err := parse(strings.NewReader(input))
	assert.Error(t, err)
}
