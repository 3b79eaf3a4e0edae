package mmphlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	SetLevel(l, LvlWarn)

	l.Debug("hidden")
	require.Empty(t, buf.String())

	l.Warn("shown", "k", "v")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "k=v")
}

func TestNewInheritsContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	child := l.New("component", "trie")

	child.Info("built")
	line := buf.String()
	require.Contains(t, line, "component=trie")
	require.Contains(t, line, "built")
}

func TestOddContextMarksMissing(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.Info("msg", "onlykey")
	require.True(t, strings.Contains(buf.String(), "MISSING"))
}

func TestDiscardDropsEverything(t *testing.T) {
	Discard.Info("anything")
	Discard.New("x", "y").Error("boom")
}
