package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/protab/mazec/mazeprotocol"
)

const (
	// positionMarker replaces the value of the cell the player stands on.
	positionMarker = "@"

	ansiInverse = "\x1b[7m"
	ansiReset   = "\x1b[0m"
)

// renderSnapshot draws the grid one row per line with right-aligned
// values. The cell at column px, row py is drawn as positionMarker; pass
// a position outside the grid to draw no marker. colour highlights the
// marker with inverse video.
func renderSnapshot(snap *mazeprotocol.Snapshot, px, py int, colour bool) string {
	rows := snap.Rows()

	width := len(positionMarker)
	for _, row := range rows {
		for _, v := range row {
			width = max(width, len(strconv.Itoa(v)))
		}
	}

	var b strings.Builder
	for y, row := range rows {
		for x, v := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			if x == px && y == py {
				pad := strings.Repeat(" ", width-len(positionMarker))
				if colour {
					b.WriteString(pad + ansiInverse + positionMarker + ansiReset)
				} else {
					b.WriteString(pad + positionMarker)
				}
				continue
			}
			fmt.Fprintf(&b, "%*d", width, v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
