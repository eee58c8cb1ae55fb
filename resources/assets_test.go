package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEverySoundKeyIsEmbedded(t *testing.T) {
	for _, key := range SoundKeys() {
		data, err := Sound(key)
		require.NoError(t, err, "sound %s", key)
		require.NotEmpty(t, data, "sound %s", key)
		// WAV files start with a RIFF header.
		assert.Equal(t, "RIFF", string(data[:4]), "sound %s", key)
	}
}

func TestUnknownSoundKeyErrors(t *testing.T) {
	_, err := Sound("no_such_sound")
	assert.Error(t, err)
}

func TestLogoLoadsAndCaches(t *testing.T) {
	first, err := Logo("pomodial.png")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Content())

	second, err := Logo("pomodial.png")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLogoUnknownFileErrors(t *testing.T) {
	_, err := Logo("missing.png")
	assert.Error(t, err)
}
