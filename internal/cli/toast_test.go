package cli

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/kasa/internal/theme"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestToast_PlainWhenNoColor(t *testing.T) {
	var buf bytes.Buffer
	toast := NewToast(&buf, theme.Dark)

	toast.Success("saved %d", 1)
	toast.Error("failed")
	toast.Info("hint")

	assert.Equal(t, "✓ saved 1\n✗ failed\n• hint\n", buf.String())
	assert.Equal(t, "title", toast.Accent("title"))
	assert.Equal(t, "x", toast.NoteColor("red", "x"))
}

func TestToast_NoColorEnvWins(t *testing.T) {
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = true })
	// set but empty still disables colour
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	NewToast(&buf, theme.Light).Success("ok")
	assert.Equal(t, "✓ ok\n", buf.String())
}

func TestPaletteFor(t *testing.T) {
	light := paletteFor(theme.Light)
	dark := paletteFor(theme.Dark)

	assert.True(t, light.success.Equals(color.New(color.FgGreen)))
	assert.True(t, dark.success.Equals(color.New(color.FgHiGreen)))
	assert.False(t, light.info.Equals(dark.info))
}

func TestNoteColor_Unknown(t *testing.T) {
	toast := NewToast(&bytes.Buffer{}, theme.Dark)
	assert.Equal(t, "x", toast.NoteColor("", "x"))
	assert.Equal(t, "x", toast.NoteColor("mauve", "x"))
}
