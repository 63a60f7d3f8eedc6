package display

import (
	"fmt"
	"io"

	"github.com/backmassage/storyboard/internal/term"
)

const bannerArt = `     _                   _                         _
 ___| |_ ___  _ __ _   _| |__   ___   __ _ _ __ __| |
/ __| __/ _ \| '__| | | | '_ \ / _ \ / _` + "`" + ` | '__/ _` + "`" + ` |
\__ \ || (_) | |  | |_| | |_) | (_) | (_| | | | (_| |
|___/\__\___/|_|   \__, |_.__/ \___/ \__,_|_|  \__,_|
                   |___/
`

// PrintBanner writes the ASCII art banner and version to w, in magenta
// when colors are enabled.
func PrintBanner(w io.Writer, version string) {
	_, _ = term.Magenta.Fprint(w, bannerArt)
	fmt.Fprintf(w, "%52s\n", version)
}

// FooterText is the line drawn under a storyboard's grid.
func FooterText(version string) string {
	return "Generated by storyboard " + version
}
