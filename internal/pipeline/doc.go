// Package pipeline turns Markdown pages into standalone HTML documents.
//
// It backs the render command: a page is preprocessed (line normalization,
// blank line compression), converted with Goldmark, and the shared notebook
// header plus optional user CSS are injected into the document head.
// Notebook fragments travel through the conversion as stash placeholders and
// are restored by the caller afterwards.
package pipeline
