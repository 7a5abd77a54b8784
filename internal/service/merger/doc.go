// Package merger wires the merge manifest to the image engine.
//
// It parses target offsets, reports placement overlaps before any payload is
// read, loads the source binaries, runs the merge and writes the finished
// container to the destination. The whole operation is one synchronous
// batch: it either produces a complete image file or fails with nothing
// written.
package merger
