// Package naming derives storyboard output paths and resolves in-run
// collisions between them.
//
// Functions:
//   - OutputPath(input, root, outputDir, ext) → string
//     <outputDir>/<dirs below root>/<stem>.storyboard.<ext>
//   - (*CollisionResolver).Resolve(input, requested) → string
//     In-run duplicate resolver with owner map and counter; two inputs
//     that map to one path get "-2", "-3", ... suffixes.
package naming
