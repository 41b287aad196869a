package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	RetCode Value[string] `json:"retcode"`
	Phase   Value[int]    `json:"phase"`
	Owner   Value[string] `json:"owner"`
}

func TestValueDistinguishesAbsentFromEmpty(t *testing.T) {
	var p probe
	require.NoError(t, json.Unmarshal([]byte(`{"retcode":null,"owner":""}`), &p))

	assert.False(t, p.RetCode.IsPresent(), "null decodes to None")
	assert.False(t, p.Phase.IsPresent(), "absent key stays None")

	owner, ok := p.Owner.Get()
	assert.True(t, ok, "empty string is still present")
	assert.Equal(t, "", owner)
}

func TestValueDecodesPresentValues(t *testing.T) {
	var p probe
	require.NoError(t, json.Unmarshal([]byte(`{"retcode":"CC 0000","phase":20}`), &p))

	assert.Equal(t, "CC 0000", p.RetCode.MustGet())
	assert.Equal(t, 20, p.Phase.OrElse(-1))
}

func TestValueRejectsWrongType(t *testing.T) {
	var p probe
	assert.Error(t, json.Unmarshal([]byte(`{"phase":"twenty"}`), &p))
}

func TestValueMarshal(t *testing.T) {
	out, err := json.Marshal(probe{RetCode: Some("CC 0004")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"retcode":"CC 0004","phase":null,"owner":null}`, string(out))
}

func TestValueHelpers(t *testing.T) {
	assert.Equal(t, "fallback", None[string]().OrElse("fallback"))
	assert.Equal(t, "None", None[int]().String())
	assert.Equal(t, "Some(3)", Some(3).String())
	assert.Panics(t, func() { None[int]().MustGet() })
}
