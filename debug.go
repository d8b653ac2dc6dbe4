package geode

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugStats holds per-frame timing and submission metrics. Only reported
// when Scene.debug is true.
type debugStats struct {
	updateTime    time.Duration
	submitTime    time.Duration
	entityCount   int
	graphCount    int
	commandCount  int
	triangleCount int
}

// debugLog prints timing and submission stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[geode] update: %v | submit: %v | total: %v\n",
		stats.updateTime, stats.submitTime, stats.updateTime+stats.submitTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[geode] entities: %d | visible graphs: %d | commands: %d | triangles: %d\n",
		stats.entityCount, stats.graphCount, stats.commandCount, stats.triangleCount)
}

// debugOverlay caches the on-screen stats text so it only re-renders every
// ~0.5 seconds instead of flickering each frame.
type debugOverlay struct {
	sinceRefresh float64
	text         string
}

// draw refreshes the overlay text when due and prints it in the top-left
// corner of the screen.
func (o *debugOverlay) draw(screen *ebiten.Image, stats debugStats, dt float64) {
	o.sinceRefresh += dt
	if o.text == "" || o.sinceRefresh >= 0.5 {
		o.sinceRefresh = 0
		o.text = fmt.Sprintf("FPS: %.1f  TPS: %.1f\ngraphs: %d  tris: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			stats.graphCount, stats.triangleCount)
	}
	ebitenutil.DebugPrint(screen, o.text)
}
