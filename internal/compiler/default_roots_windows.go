// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package compiler

import (
	"strings"
)

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	roots := []string{}
	if impPath, ok := lookup("IMPPATH"); ok {
		for _, p := range strings.Split(impPath, ";") {
			if p != "" {
				roots = append(roots, p)
			}
		}
	}
	return append(roots, `C:\`)
}
