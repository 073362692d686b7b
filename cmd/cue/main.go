// Command cue runs a reorderable smart queue on top of Spotify.
package main

import "github.com/tessro/cue/internal/cli"

func main() {
	cli.Execute()
}
