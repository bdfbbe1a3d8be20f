// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package compiler

import (
	"strings"
)

// getDefaultRoots resolves the search path for source files. Targets are
// absolute paths resolved against each root in order, so the default root
// is the filesystem root itself. IMPPATH may prepend additional roots.
func getDefaultRoots(lookup func(string) (string, bool)) []string {
	roots := []string{}
	if impPath, ok := lookup("IMPPATH"); ok {
		for _, p := range strings.Split(impPath, ":") {
			if p != "" {
				roots = append(roots, p)
			}
		}
	}
	return append(roots, "/")
}
