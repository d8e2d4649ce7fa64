package terminal

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/render"
)

const (
	tileW  = 7
	tileH  = 3
	gap    = 1
	boardX = 2
	boardY = 2
	boardW = engine.Size*tileW + (engine.Size+1)*gap
	boardH = engine.Size*tileH + (engine.Size+1)*gap

	frameInterval = 16 * time.Millisecond // ~60 FPS

	// The overlay waits five units before fading in over one unit
	overlayStart = -5.0
	overlayUnit  = 200 * time.Millisecond
	overlayAlpha = 171.0 / 255
)

// Sound is told about every merge and spawn as it lands
type Sound interface {
	Merge(value int)
	Spawn()
}

// Option configures a Game
type Option func(*Game)

// WithSound plays cues through s
func WithSound(s Sound) Option {
	return func(g *Game) {
		g.sound = s
	}
}

// Game draws a board on a tcell screen and animates it frame by frame
type Game struct {
	screen   tcell.Screen
	engine   *engine.GameEngine
	sound    Sound
	duration time.Duration

	// progress of the active batch in [0,1]
	progress float64
	// overlay grows from overlayStart to 1 once the game has ended
	overlay float64
	// fade is the overlay opacity applied to board colors while drawing
	fade float64

	err error
}

// New wraps an engine. Opening spawns left active by the engine animate on
// the first frames.
func New(screen tcell.Screen, eng *engine.GameEngine, opts ...Option) *Game {
	g := &Game{
		screen:   screen,
		engine:   eng,
		duration: time.Duration(eng.GetConfig().AnimationDuration()) * time.Millisecond,
		overlay:  overlayStart,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) board() *engine.Board {
	return g.engine.GetBoard()
}

// Err returns the first board error seen while playing
func (g *Game) Err() error {
	return g.err
}

// Run drives input and frames until a quit key, ctx is done or the board
// reports an error
func (g *Game) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()
	g.Draw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.HandleKey(ev) {
					return g.err
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}

		case now := <-ticker.C:
			g.Step(now.Sub(last))
			last = now
			g.Draw()
			if g.err != nil {
				return g.err
			}
		}
	}
}

func keyDirection(ev *tcell.EventKey) (engine.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyDown:
		return engine.Down, true
	case tcell.KeyUp:
		return engine.Up, true
	case tcell.KeyRight:
		return engine.Right, true
	case tcell.KeyLeft:
		return engine.Left, true
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 's':
			return engine.Down, true
		case 'w':
			return engine.Up, true
		case 'd':
			return engine.Right, true
		case 'a':
			return engine.Left, true
		}
	}
	return 0, false
}

// HandleKey applies one key press and reports whether to keep running
func (g *Game) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'q':
			return false
		case 'r':
			g.restart()
			return g.err == nil
		}
	}

	dir, ok := keyDirection(ev)
	if !ok {
		return true
	}

	board := g.board()
	if board.HasGameEnded() {
		return true
	}
	if board.IsAnimating() {
		// Commits the rest of the previous move: its slides, then the
		// merges and spawn they produced
		g.resolve()
		g.resolve()
		g.progress = 0
	}
	if _, err := board.PlayMove(dir); err != nil && g.err == nil {
		g.err = err
	}
	return g.err == nil
}

func (g *Game) restart() {
	if _, err := g.engine.Reset(); err != nil {
		g.err = err
	}
	g.progress = 0
	g.overlay = overlayStart
}

// resolve commits the active batch and plays its cues
func (g *Game) resolve() {
	board := g.board()
	if g.sound != nil {
		for _, a := range board.Animations() {
			switch a := a.(type) {
			case engine.MergeTile:
				if v, err := board.Tile(a.At.Row, a.At.Col); err == nil {
					g.sound.Merge(v * 2)
				}
			case engine.NewTile:
				g.sound.Spawn()
			}
		}
	}
	if err := board.ResolveAnimations(); err != nil && g.err == nil {
		g.err = err
	}
}

// Step advances animations by dt
func (g *Game) Step(dt time.Duration) {
	board := g.board()

	if board.HasGameEnded() {
		// A winning merge still has its spawn queued
		for i := 0; board.IsAnimating() && i < 2*engine.Size; i++ {
			g.resolve()
		}
		if g.overlay < 1 {
			g.overlay += dt.Seconds() / overlayUnit.Seconds()
		}
		if g.overlay > 1 {
			g.overlay = 1
		}
		return
	}

	if !board.IsAnimating() || g.duration <= 0 {
		return
	}
	g.progress += float64(dt) / float64(g.duration)
	if g.progress > 1 {
		g.resolve()
		g.progress = 0
	}
}

// Draw renders the current frame
func (g *Game) Draw() {
	board := g.board()
	ended := board.HasGameEnded()

	g.fade = 0
	if ended && g.overlay > 0 {
		g.fade = overlayAlpha * easeOut(math.Min(g.overlay, 1))
	}

	g.screen.Fill(' ', tcell.StyleDefault.Background(backgroundColor.color()))
	title := tcell.StyleDefault.Background(backgroundColor.color()).Foreground(darkText.color()).Bold(true)
	g.drawText(boardX, 0, fmt.Sprintf("2048 | Score: %s", render.Score(board.Score())), title)

	g.fillRect(boardX, boardY, boardW, boardH, g.tint(boardColor))
	for r := 0; r < engine.Size; r++ {
		for c := 0; c < engine.Size; c++ {
			x, y := cellOrigin(r, c)
			g.fillRect(x, y, tileW, tileH, g.tint(emptyColor))
		}
	}

	if ended || !board.IsAnimating() {
		grid := board.Grid()
		for r, row := range grid {
			for c, v := range row {
				g.drawTile(float64(r), float64(c), v, 1)
			}
		}
	} else {
		g.drawAnimation(board)
	}

	if ended && g.overlay > 0 {
		g.drawOverlay(board)
	}

	hint := tcell.StyleDefault.Background(backgroundColor.color()).Foreground(darkText.color())
	g.drawText(boardX, boardY+boardH+1, "arrows/wasd move  r restart  q quit", hint)
	g.screen.Show()
}

func (g *Game) drawAnimation(board *engine.Board) {
	grid := board.Grid()
	p := g.progress

	for _, loc := range board.StaticTiles() {
		g.drawTile(float64(loc.Row), float64(loc.Col), grid[loc.Row][loc.Col], 1)
	}

	for _, a := range board.Animations() {
		switch a := a.(type) {
		case engine.MoveTile:
			t := smoothstep(p)
			row := lerp(float64(a.From.Row), float64(a.To.Row), t)
			col := lerp(float64(a.From.Col), float64(a.To.Col), t)
			g.drawTile(row, col, grid[a.From.Row][a.From.Col], 1)
		case engine.NewTile:
			g.drawTile(float64(a.At.Row), float64(a.At.Col), a.Value, easeOut(p))
		case engine.MergeTile:
			g.drawTile(float64(a.At.Row), float64(a.At.Col), grid[a.At.Row][a.At.Col]*2, pulse(p))
		}
	}
}

func (g *Game) drawOverlay(board *engine.Board) {
	t := easeOut(math.Min(g.overlay, 1))
	bg := g.tint(boardColor)
	style := tcell.StyleDefault.Background(bg.color()).Foreground(blend(bg, darkText, t).color()).Bold(true)

	headline := "Game Over"
	if board.HasWon() {
		headline = "You Won"
	}
	score := "Score: " + render.Score(board.Score())

	g.drawCentered(boardY+boardH/2-2, headline, style)
	g.drawCentered(boardY+boardH/2+1, score, style)
}

// drawTile draws value centered on a fractional cell position, scaled
// around its center
func (g *Game) drawTile(row, col float64, value int, scale float64) {
	if value == 0 || scale <= 0 {
		return
	}
	w := int(math.Round(tileW * scale))
	h := int(math.Round(tileH * scale))
	if w < 1 || h < 1 {
		return
	}

	cx := float64(boardX+gap) + col*float64(tileW+gap) + tileW/2.0
	cy := float64(boardY+gap) + row*float64(tileH+gap) + tileH/2.0
	left := int(math.Floor(cx - float64(w)/2 + 0.5))
	top := int(math.Floor(cy - float64(h)/2 + 0.5))

	bg := g.tint(tileColor(value))
	g.fillRect(left, top, w, h, bg)

	label := render.Tile(value)
	if len(label) <= w {
		style := tcell.StyleDefault.Background(bg.color()).Foreground(g.tint(textColor(value)).color()).Bold(true)
		g.drawText(left+(w-len(label))/2, top+h/2, label, style)
	}
}

func (g *Game) tint(c rgb) rgb {
	if g.fade <= 0 {
		return c
	}
	return blend(c, overlayColor, g.fade)
}

func (g *Game) fillRect(x, y, w, h int, c rgb) {
	style := tcell.StyleDefault.Background(c.color())
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.screen.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
}

func (g *Game) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (g *Game) drawCentered(y int, s string, style tcell.Style) {
	g.drawText(boardX+(boardW-len([]rune(s)))/2, y, s, style)
}

func cellOrigin(row, col int) (int, int) {
	return boardX + gap + col*(tileW+gap), boardY + gap + row*(tileH+gap)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func smoothstep(p float64) float64 {
	return p * p * (3 - 2*p)
}

func easeOut(p float64) float64 {
	return p * (2 - p)
}

// pulse starts and ends at 1 and peaks at 1.125 halfway
func pulse(p float64) float64 {
	return 0.5 * (p + 1) * (2 - p)
}
