package naming

import (
	"path/filepath"
	"strings"
)

// Suffix is inserted between an input's stem and the image extension.
const Suffix = ".storyboard"

// OutputPath builds the storyboard path for input. root is the directory
// argument input was discovered under ("" for a file argument); the part of
// input's directory below root is mirrored under outputDir so files of the
// same name in different folders do not meet. ext has no leading dot.
//
//	movies/a/clip.mkv, root "movies", out "sb" → sb/a/clip.storyboard.jpg
//	clip.mkv,          root "",       out "sb" → sb/clip.storyboard.jpg
func OutputPath(input, root, outputDir, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	file := stem + Suffix + "." + ext

	if root != "" {
		if rel, err := filepath.Rel(root, filepath.Dir(input)); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.Join(outputDir, rel, file)
		}
	}
	return filepath.Join(outputDir, file)
}
