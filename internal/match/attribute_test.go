package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribute(t *testing.T) {
	for _, attr := range AllAttributes() {
		got, err := ParseAttribute(attr.String())
		require.NoError(t, err)
		assert.Equal(t, attr, got)
	}

	got, err := ParseAttribute("  TeRRor ")
	require.NoError(t, err)
	assert.Equal(t, Terror, got)

	_, err = ParseAttribute("charisma")
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestAttributesValue(t *testing.T) {
	a := Attributes{Life: 1, Attack: 2, Defense: 3, Speed: 4, Power: 5, Terror: 6}
	for i, attr := range AllAttributes() {
		assert.Equal(t, i+1, a.Value(attr))
	}
	assert.Panics(t, func() { a.Value(Attribute(6)) })
}

func TestAttributeJSON(t *testing.T) {
	data, err := json.Marshal(AttributeChosenPayload{Round: 2, Chooser: "P2", Attribute: Speed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"round":2,"chooser":"P2","attribute":"speed"}`, string(data))

	var decoded AttributeChosenPayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Speed, decoded.Attribute)

	assert.Error(t, json.Unmarshal([]byte(`{"attribute":"luck"}`), &decoded))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "choosing_attribute", ChoosingAttribute.String())
	assert.Equal(t, "unknown", Phase(99).String())

	var p Phase
	require.NoError(t, p.UnmarshalText([]byte("awaiting_plays")))
	assert.Equal(t, AwaitingPlays, p)
	assert.Error(t, p.UnmarshalText([]byte("lobby")))
}

func TestAvatarValid(t *testing.T) {
	assert.True(t, Springtrap.Valid())
	assert.False(t, Avatar("endo").Valid())
	assert.Len(t, Avatars(), 8)
}
