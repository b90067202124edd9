// Package pna implements the Portable Network Archive container format: a
// chunk-structured archive modeled after PNG's framing, carrying a sequence
// of file/directory/symlink/hardlink entries with optional compression,
// optional password-based encryption, optional solid grouping, and optional
// splitting across multiple volumes.
//
// The chunk codec, entry pipeline, solid-block framing, archive
// reader/writer, and transform pass live in sub-packages (chunk, cipher,
// compress, kdf, entry, solid, archive, transform); this package carries the
// container-wide magic signature, version constants, and the shared error
// taxonomy.
package pna
