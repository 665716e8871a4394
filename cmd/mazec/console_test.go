package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protab/mazec/internal/mazetest"
	"github.com/protab/mazec/mazeprotocol"
)

// scriptedInput returns a line editor fed from text, as when stdin is a
// pipe.
func scriptedInput(text string, out *bytes.Buffer) *LineEditor {
	return NewLineEditor(strings.NewReader(text), out)
}

func TestLineEditorNonInteractive(t *testing.T) {
	var out bytes.Buffer
	editor := scriptedInput("first\nsecond\n", &out)
	defer editor.Close()

	assert.False(t, editor.IsInteractive())

	line, err := editor.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = editor.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = editor.GetLine("> ")
	assert.Error(t, err)
	assert.Equal(t, "> > > ", out.String())
}

func TestParseMoves(t *testing.T) {
	tests := []struct {
		line    string
		want    []mazeprotocol.Direction
		wantErr bool
	}{
		{"d", []mazeprotocol.Direction{mazeprotocol.Right}, false},
		{"wwd", []mazeprotocol.Direction{mazeprotocol.Up, mazeprotocol.Up, mazeprotocol.Right}, false},
		{"up left", []mazeprotocol.Direction{mazeprotocol.Up, mazeprotocol.Left}, false},
		{"W a", []mazeprotocol.Direction{mazeprotocol.Up, mazeprotocol.Left}, false},
		{"down sa", []mazeprotocol.Direction{mazeprotocol.Down, mazeprotocol.Down, mazeprotocol.Left}, false},
		{"x", nil, true},
		{"upx", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseMoves(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayConsole(t *testing.T) {
	c, srv := startGame(t, mazetest.NewGame(
		"S#",
		".G",
	))

	var out bytes.Buffer
	input := "d\n.last\n\ns\n.pos\n.map\nd\nw\n"
	err := runPlay(c, scriptedInput(input, &out), &out, false)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Cannot move right: wall")
	assert.Contains(t, text, `Last refusal: "wall"`)
	assert.Contains(t, text, "You are at (0, 1)")
	assert.Contains(t, text, "2x2, you are at (0, 1)\n0 1\n@ 2\n")
	assert.Contains(t, text, "Game over: finished")

	// The console stops after OVER; the final "w" is never sent.
	assert.Equal(t, 3, srv.Count(mazeprotocol.CmdMove))
}

func TestPlayConsoleStopsMovesAtRefusal(t *testing.T) {
	c, srv := startGame(t, mazetest.NewGame("S.#G"))

	var out bytes.Buffer
	err := runPlay(c, scriptedInput("dddd\n", &out), &out, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Cannot move right: wall")
	assert.Equal(t, 2, srv.Count(mazeprotocol.CmdMove))
}

func TestPlayConsoleInputErrors(t *testing.T) {
	c, srv := startGame(t, mazetest.NewGame("S.G"))

	var out bytes.Buffer
	err := runPlay(c, scriptedInput("jump\n.help\n.quit\nd\n", &out), &out, false)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, `Error: "jump" is not a move`)
	assert.Contains(t, text, ".map")
	assert.Equal(t, 0, srv.Count(mazeprotocol.CmdMove))
}

func TestPlayConsoleWaits(t *testing.T) {
	c, srv := startGame(t, mazetest.NewGame("S.G"))

	var out bytes.Buffer
	require.NoError(t, runPlay(c, scriptedInput("", &out), &out, true))

	assert.Contains(t, out.String(), "Waiting for the game to start...")
	assert.Equal(t, 1, srv.Count(mazeprotocol.CmdWait))
}

func TestPlayConsoleConnectionLost(t *testing.T) {
	c, _ := startGame(t, mazetest.HandlerFunc(func(cmd string) string {
		if strings.HasPrefix(cmd, "MOVE") {
			return mazetest.Hangup
		}
		return "DONE"
	}))

	var out bytes.Buffer
	err := runPlay(c, scriptedInput("d\n", &out), &out, false)
	require.Error(t, err)
	assert.True(t, mazeprotocol.IsFatal(err))
}

func TestRawConsole(t *testing.T) {
	c, srv := startGame(t, mazetest.NewGame("S..G"))

	var out bytes.Buffer
	input := "getw\nWHAT 3 0\n\nmove d\nGETX\nmove x\nGETY\n"
	err := runRaw(c, scriptedInput(input, &out), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "DATA 4\n")
	assert.Contains(t, text, "DATA 2\n")
	assert.Contains(t, text, "DONE\n")
	assert.Contains(t, text, "DATA 1\n")
	assert.Contains(t, text, "Game over: MOVE expects one of W, A, S, D")
	assert.Equal(t, 0, srv.Count(mazeprotocol.CmdY))
}

func TestRawConsoleQuit(t *testing.T) {
	c, srv := startGame(t, mazetest.NewGame("S..G"))

	var out bytes.Buffer
	err := runRaw(c, scriptedInput(".help\n.quit\nGETW\n", &out), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "WHAT <x> <y>")
	assert.Equal(t, 0, srv.Count(mazeprotocol.CmdWidth))
}
