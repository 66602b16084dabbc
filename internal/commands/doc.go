// Package commands implements the file-level operations behind the pngme CLI:
// hide a message in a chunk, read it back, remove it, and list chunks.
package commands
