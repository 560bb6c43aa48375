package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	raw := "```json\n[{\"last_name\": \"DUPONT\"}]\n```"
	assert.Equal(t, `[{"last_name": "DUPONT"}]`, StripCodeFence(raw))

	// no fence, no change
	assert.Equal(t, `[]`, StripCodeFence("[]"))
}

func TestParseRosterReply(t *testing.T) {
	raw := "```json\n[{\"last_name\": \"DUPONT\", \"first_name\": \"Marie\", \"elo\": 1820, \"license_number\": \"A12345\"},\n{\"last_name\": \"MARTIN\", \"first_name\": \"Paul\", \"elo\": \"1450\"}]\n```"

	rows, err := ParseRosterReply(raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "DUPONT", rows[0].LastName)
	assert.Equal(t, "A12345", rows[0].LicenseNumber)
	assert.Equal(t, float64(1820), rows[0].Elo)
	assert.Equal(t, "1450", rows[1].Elo) // string elos survive to normalization
}

func TestParseRosterReplyMalformed(t *testing.T) {
	_, err := ParseRosterReply("Sorry, I cannot read this image.")
	assert.Error(t, err)
}

func TestParseDesignReply(t *testing.T) {
	raw := "Here is your theme:\n```json\n{\"primary_color\": \"#1e293b\", \"border_radius\": \"2.5rem\", \"slogan\": \"Échec et mat !\"}\n```\nEnjoy."

	cfg, err := ParseDesignReply(raw)
	require.NoError(t, err)
	assert.Equal(t, "#1e293b", cfg.PrimaryColor)
	assert.Equal(t, "2.5rem", cfg.BorderRadius)
	assert.Equal(t, "Échec et mat !", cfg.Slogan)
	assert.Empty(t, cfg.CustomFont)
}

func TestParseDesignReplyNoObject(t *testing.T) {
	_, err := ParseDesignReply("no json here")
	assert.Error(t, err)
}
