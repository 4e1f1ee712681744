// Package clip copies generated codes to the system clipboard, best effort.
package clip

import "github.com/atotto/clipboard"

// Available reports whether a clipboard tool (xclip, xsel, or the platform
// equivalent) can be driven on this host.
func Available() bool {
	return !clipboard.Unsupported
}

// Copy places text on the clipboard.
func Copy(text string) error {
	return clipboard.WriteAll(text)
}
