package tui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	out, err := Plain("# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", out)
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	require.NoError(t, err)

	out, err := render("# Checkout\n\n1. Pay\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Checkout")
	assert.Contains(t, out, "Pay")
}

func TestForFile_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	out, err := ForFile(f)("# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\___/|_|  |_|_____|`)
}
