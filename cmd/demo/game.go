package main

import (
	"fmt"
	"log"

	"github.com/duskforge/ccworld/ccworld"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// Game drives one of the built-in scenarios against a ccworld.World.
type Game struct {
	frames int

	world    *ccworld.World
	scenario string

	player *ccworld.Collider
	ground *ccworld.Collider
	enemy  *ccworld.Collider

	watcher *ccworld.ConfigWatcher
}

func defaultClassTable() ccworld.ClassTable {
	return ccworld.ClassTable{
		"Player": {
			Enter: ccworld.AllClasses(),
			Exit:  ccworld.AllClasses(),
		},
		"Enemy": {
			Ignores: ccworld.Classes("Player"),
			Enter:   ccworld.AllClasses(),
			Exit:    ccworld.AllClasses(),
		},
		"Ground": {},
	}
}

func NewGame(scenario string, debug bool, classFile string) (*Game, error) {
	w := ccworld.New(0, 900, false)

	g := &Game{world: w, scenario: scenario}

	if classFile != "" {
		watcher, err := ccworld.WatchClassTableFile(classFile, func(table ccworld.ClassTable) {
			if err := w.ReloadCollisionClassTable(table); err != nil {
				log.Printf("ccworld demo: reload %s: %v", classFile, err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("watching class file %s: %w", classFile, err)
		}
		g.watcher = watcher
	} else if err := w.AddCollisionClassTable(defaultClassTable()); err != nil {
		return nil, fmt.Errorf("registering class table: %w", err)
	}

	w.SetQueryDebugDrawing(debug)

	if err := g.buildScenario(scenario); err != nil {
		return nil, err
	}

	g.player.SetPreSolve(func(self, other *ccworld.Collider, contact *ccworld.Contact) bool {
		return true
	})
	g.player.SetPostSolve(func(self, other *ccworld.Collider, contact *ccworld.Contact) {})

	log.Printf("ccworld demo: scenario %q ready", scenario)
	return g, nil
}

func (g *Game) buildScenario(scenario string) error {
	ground, err := g.world.NewStaticRectangleCollider(0, baseHeight-40, baseWidth, 40, "Ground")
	if err != nil {
		return fmt.Errorf("ground collider: %w", err)
	}
	g.ground = ground

	player, err := g.world.NewCircleCollider(baseWidth/2, 100, 24, "Player")
	if err != nil {
		return fmt.Errorf("player collider: %w", err)
	}
	g.player = player

	switch scenario {
	case "sensor":
		enemy, err := g.world.NewRectangleCollider(baseWidth/2-100, baseHeight-160, 200, 120, "Enemy")
		if err != nil {
			return fmt.Errorf("enemy collider: %w", err)
		}
		g.enemy = enemy
	case "joints":
		enemy, err := g.world.NewCircleCollider(baseWidth/2+120, 100, 16, "Enemy")
		if err != nil {
			return fmt.Errorf("enemy collider: %w", err)
		}
		g.enemy = enemy
		g.world.AddJoint(g.player, g.enemy, ccworld.JointSpec{
			Kind:      ccworld.JointRope,
			MaxLength: 140,
		})
	default: // "platform"
	}
	return nil
}

const fixedDT = 1.0 / 60.0

func (g *Game) Update() error {
	g.frames++
	g.world.Update(fixedDT)

	if g.player.Enter("Ground") {
		log.Printf("frame %d: player touched ground", g.frames)
	}
	if g.player.Exit("Ground") {
		log.Printf("frame %d: player left ground", g.frames)
	}
	if g.enemy != nil {
		if g.player.Enter("Enemy") {
			log.Printf("frame %d: player entered enemy zone", g.frames)
		}
		if g.player.Exit("Enemy") {
			log.Printf("frame %d: player exited enemy zone", g.frames)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Skyblue)

	pos := g.player.Body().Position()
	vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), 24, colornames.Crimson, true)

	gpos := g.ground.Body().Position()
	vector.DrawFilledRect(screen, float32(gpos.X)-baseWidth/2, float32(gpos.Y)-20, baseWidth, 40, colornames.Forestgreen, true)

	if g.enemy != nil {
		epos := g.enemy.Body().Position()
		vector.DrawFilledCircle(screen, float32(epos.X), float32(epos.Y), 16, colornames.Darkorange, true)
	}

	g.world.DrawDebug(screen, 0, 0, 1)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("scenario: %s  frames: %d  fps: %.1f", g.scenario, g.frames, ebiten.ActualFPS()), 10, 10)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
