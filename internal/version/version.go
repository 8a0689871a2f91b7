package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner of SafeLite.
func asciiArtTpl() string {
	asciiArt := `
   _____        __     _     _ _
  / ___/____ _ / _|___| |   (_) |_ ___
  \__ \/ __ '/| |_/ _ \ |   | | __/ _ \
 ___/ / /_/ / |  _  __/ |___| | ||  __/
/____/\__,_/  |_| \___|_____|_|\__\___|
%s ` + Version + `
Schema-safe access layer for embedded SQLite databases`

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// CLIVersion returns the version banner for the safelite CLI.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}
