package watcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyCommand(t *testing.T) {
	worn := Alert{Level: LevelInfo, Title: "Worn: Linen Shirt", Message: "Wear count 3 → 4"}
	drop := Alert{Level: LevelWarning, Title: "Sustainability score dropped", Message: "60 → 50"}

	mac := notifyCommand("darwin", worn)
	require.Len(t, mac, 3)
	assert.Equal(t, "osascript", mac[0])
	assert.Contains(t, mac[2], `subtitle "Worn: Linen Shirt"`)
	assert.Contains(t, mac[2], `with title "closetwatch"`)

	linux := notifyCommand("linux", worn)
	require.NotEmpty(t, linux)
	assert.Equal(t, "notify-send", linux[0])
	assert.Contains(t, linux, "--urgency=normal")
	assert.Equal(t, "Wear count 3 → 4", linux[len(linux)-1])

	assert.Contains(t, notifyCommand("linux", drop), "--urgency=critical")
	assert.Nil(t, notifyCommand("windows", worn))
}

func TestWriteFallback(t *testing.T) {
	var buf bytes.Buffer
	err := writeFallback(&buf, Alert{Level: LevelInfo, Title: "New item", Message: "Wool Scarf added"})
	require.NoError(t, err)
	assert.Equal(t, "[info] New item: Wool Scarf added\n", buf.String())
}

func TestNotify_FallsBackWithoutNotifier(t *testing.T) {
	var buf bytes.Buffer
	prev := fallbackOut
	fallbackOut = &buf
	defer func() { fallbackOut = prev }()
	t.Setenv("PATH", t.TempDir())

	require.NoError(t, Notify(Alert{Level: LevelWarning, Title: "t", Message: "m"}))
	assert.Equal(t, "[warning] t: m\n", buf.String())
}
