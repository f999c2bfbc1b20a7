package keybind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	labels := []string{
		"a", "9", "enter", "escape", "tab", "up", "down", "left", "right",
		"home", "end", "pageup", "pagedown", "backspace", "space",
		"f1", "f12", "ctrl+l", "ctrl+shift+t", "alt+enter", "ctrl+alt+shift+meta+x",
	}
	for _, label := range labels {
		b, err := ParseKeyID(label)
		require.NoError(t, err, "label %q", label)
		assert.Equal(t, label, FormatKeybindingLower(b), "round trip for %q", label)
	}
}

func TestParseKeyIDEscAlias(t *testing.T) {
	b, err := ParseKeyID("esc")
	require.NoError(t, err)
	assert.Equal(t, "escape", FormatKeybindingLower(b))
}

func TestParseKeyIDRejectsUnknown(t *testing.T) {
	_, err := ParseKeyID("hyper+x")
	assert.Error(t, err)

	_, err = ParseKeyID("ctrl+nonsense")
	assert.Error(t, err)

	_, err = ParseKeyID("")
	assert.Error(t, err)
}

func TestDefaultCoversAllActions(t *testing.T) {
	d := Default()
	for _, a := range SortedActions() {
		assert.NotEmpty(t, d[a], "action %q has no default binding", a)
	}
}

func TestBindingsMatches(t *testing.T) {
	b := Default()
	assert.True(t, b.Matches(Interrupt, "esc"))
	assert.True(t, b.Matches(Interrupt, "escape"))
	assert.False(t, b.Matches(Interrupt, "ctrl+c"))
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}

func TestLoadOverlaysOntoDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"clear": "ctrl+k",
		"newline": ["ctrl+j", "alt+enter"]
	}`), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl+k"}, b[Clear])
	assert.Equal(t, []string{"ctrl+j", "alt+enter"}, b[Newline])
	// Untouched actions keep their default.
	assert.Equal(t, Default()[Exit], b[Exit])
}

func TestLoadRejectsUnknownAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"doesNotExist": "ctrl+x"}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedLabel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"clear": "hyper+k"}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
