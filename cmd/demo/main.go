// Command demo is a thin driver exercising ccworld end-to-end: it builds a
// World, registers a small class table, spawns a few colliders, and runs an
// ebiten game loop logging enter/exit transitions to stderr.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "record shape queries in the debug overlay (fixtures are always drawn)")
	scenario := flag.String("scenario", "platform", "demo scenario to run (platform, sensor, joints)")
	classFile := flag.String("classfile", "", "optional YAML collision class table to load and hot-reload")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("ccworld demo")

	game, err := NewGame(*scenario, *debug, *classFile)
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
