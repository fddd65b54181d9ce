// Package render draws a game snapshot as an SVG board.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
)

// Options controls the drawing. The zero value is a 45px board from
// white's side with no highlights.
type Options struct {
	SquareSize  int
	Perspective game.Color // side drawn at the bottom
	Highlight   []string   // square labels drawn with a marker
	Light, Dark string     // fill colours
}

const (
	defaultSize  = 45
	defaultLight = "#f0d9b5"
	defaultDark  = "#b58863"
	markColor    = "#f6f669"
)

var glyphs = map[game.Color]map[game.PieceType]string{
	game.White: {
		game.King: "♔", game.Queen: "♕", game.Rook: "♖",
		game.Bishop: "♗", game.Knight: "♘", game.Pawn: "♙",
	},
	game.Black: {
		game.King: "♚", game.Queen: "♛", game.Rook: "♜",
		game.Bishop: "♝", game.Knight: "♞", game.Pawn: "♟",
	},
}

// Board writes snap as a standalone SVG document.
func Board(w io.Writer, snap game.Snapshot, opts Options) error {
	size := opts.SquareSize
	if size <= 0 {
		size = defaultSize
	}
	light, dark := opts.Light, opts.Dark
	if light == "" {
		light = defaultLight
	}
	if dark == "" {
		dark = defaultDark
	}

	marked := make(map[game.Square]bool, len(opts.Highlight))
	for _, label := range opts.Highlight {
		sq, err := game.ParseSquare(label)
		if err != nil {
			return err
		}
		marked[sq] = true
	}

	canvas := svg.New(w)
	canvas.Start(8*size, 8*size)
	canvas.Title(fmt.Sprintf("game %s, %s to move", snap.ID, snap.Turn))

	canvas.Gid("squares")
	for rank := int8(0); rank < 8; rank++ {
		for file := int8(0); file < 8; file++ {
			sq := game.Square{File: file, Rank: rank}
			x, y := origin(sq, size, opts.Perspective)
			fill := dark
			if (file+rank)%2 == 1 {
				fill = light
			}
			canvas.Rect(x, y, size, size, "fill:"+fill)
			if marked[sq] {
				canvas.Rect(x, y, size, size, "fill:"+markColor+";fill-opacity:0.5")
			}
		}
	}
	canvas.Gend()

	canvas.Gid("pieces")
	for _, label := range snap.Squares() {
		pv := snap.Board[label]
		sq, err := game.ParseSquare(label)
		if err != nil {
			return err
		}
		glyph, ok := glyphs[pv.Color][pv.Type]
		if !ok {
			return fmt.Errorf("render: no glyph for %s %s", pv.Color, pv.Type)
		}
		x, y := origin(sq, size, opts.Perspective)
		canvas.Text(x+size/2, y+size*4/5, glyph,
			fmt.Sprintf("text-anchor:middle;font-size:%dpx", size*4/5))
	}
	canvas.Gend()

	canvas.End()
	return nil
}

// origin returns the top-left pixel of sq.
func origin(sq game.Square, size int, bottom game.Color) (x, y int) {
	if bottom == game.Black {
		return int(7-sq.File) * size, int(sq.Rank) * size
	}
	return int(sq.File) * size, int(7-sq.Rank) * size
}
