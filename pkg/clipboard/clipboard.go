/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package clipboard copies text to the system clipboard when one exists.
// Headless hosts get a no-op implementation so callers never branch.
package clipboard

import (
	atotto "github.com/atotto/clipboard"
)

// Clipboard copies text to the operator's clipboard.
type Clipboard interface {
	// Copy places text on the clipboard.
	Copy(text string) error
	// Available reports whether a real clipboard backs this instance.
	Available() bool
}

// System returns the host clipboard, or a no-op fallback when the platform
// has none (headless Linux without xclip/xsel, for instance).
func System() Clipboard {
	if atotto.Unsupported {
		return noop{}
	}
	return system{}
}

type system struct{}

func (system) Copy(text string) error { return atotto.WriteAll(text) }
func (system) Available() bool        { return true }

type noop struct{}

func (noop) Copy(string) error { return nil }
func (noop) Available() bool   { return false }
