// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fixture "github.com/kelindar/tileset/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with the given arguments and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeConfig writes a config file pointing the store into a temporary directory
func writeConfig(t *testing.T, tick string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tileset.toml")
	doc := "tick = \"" + tick + "\"\nstore = \"" + filepath.ToSlash(filepath.Join(dir, "session.db")) + "\"\nstrict = true\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	assert.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", fixture.Galaxy())
	require.NoError(t, err)
	assert.Contains(t, out, "Tileset: 26 tiles of 32x32")
	assert.Contains(t, out, "tile 15: 11 frames, cycle 1.1s (ok)")
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", fixture.Galaxy(), "0", "--at", "1999ms")
	require.NoError(t, err)
	assert.Contains(t, out, "frame 1 of 4")
	assert.Contains(t, out, "sprites/Galaxy_Tile_1/sprite_3.png [0,0 32x32]")

	out, err = run(t, "resolve", fixture.Galaxy(), "13")
	require.NoError(t, err)
	assert.NotContains(t, out, "frame")
	assert.Contains(t, out, "sprites/Galaxy_Tile_4/sprite_0.png")

	_, err = run(t, "resolve", fixture.Galaxy(), "500")
	assert.Error(t, err)

	_, err = run(t, "resolve", fixture.Galaxy(), "abc")
	assert.Error(t, err)
}

func TestPlay(t *testing.T) {
	config := writeConfig(t, "100ms")
	out, err := run(t, "--config", config, "play", fixture.Galaxy(), "0", "--for", "800ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "sprite_2.png")
	assert.Contains(t, lines[1], "sprite_3.png")
	assert.Contains(t, lines[4], "sprite_2.png")
}

func TestPlay_Realtime(t *testing.T) {
	config := writeConfig(t, "10ms")
	out, err := run(t, "--config", config, "play", fixture.Galaxy(), "0", "--for", "250ms", "--realtime")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "0s")
	assert.Contains(t, lines[0], "sprite_2.png")
}

func TestPlay_Session(t *testing.T) {
	config := writeConfig(t, "100ms")

	_, err := run(t, "--config", config, "play", fixture.Galaxy(), "0", "--for", "300ms", "--session", "demo")
	require.NoError(t, err)

	// The second run continues where the first one stopped
	out, err := run(t, "--config", config, "play", fixture.Galaxy(), "0", "--for", "0s", "--session", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "400ms")
	assert.Contains(t, out, "sprite_0.png")
}

func TestImport(t *testing.T) {
	config := writeConfig(t, "16ms")
	out, err := run(t, "--config", config, "import", fixture.Galaxy(), "galaxy")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 26 tiles as 'galaxy'")

	_, err = run(t, "--config", config, "import", "missing.tsx", "x")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStore, cfg.Store)
	tick, err := cfg.TickInterval()
	assert.NoError(t, err)
	assert.Equal(t, DefaultTick, tick)
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("tick = \"-5ms\"\n"), 0644))
	_, err = loadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tick = [\n"), 0644))
	_, err = loadConfig(path)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	cfg = Config{LogLevel: "DEBUG"}
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	_, err = Config{Tick: "soon"}.TickInterval()
	assert.Error(t, err)
	assert.Equal(t, 16*time.Millisecond, DefaultTick)
}
