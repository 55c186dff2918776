// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package style checks Python source against a pycodestyle-compatible rule
// set without touching the filesystem.
//
// A Checker evaluates one unit of source (a notebook cell) as if it were a
// standalone file and delivers each violation to a Report. The Report is the
// only output channel: the checker never prints, never writes files, and keeps
// no state between calls.
//
// # Rule Families
//
//   - E1  indentation of logical lines
//   - E2  whitespace around brackets, operators, and comments
//   - E3  blank lines around definitions
//   - E4  imports
//   - E5  line length
//   - E7  statements and comparisons
//   - W1, W2, W3, W6  physical-line warnings
//
// Rules() lists every code with its message template.
//
// # Usage
//
//	checker := style.NewChecker(style.WithMaxLineLength(99))
//	collector := style.NewCollector()
//	if err := checker.Check(ctx, "cell_1.py", source, collector); err != nil {
//	    // tokenizer failure: no violations were delivered
//	}
//	for _, v := range collector.Violations() {
//	    fmt.Println(v)
//	}
package style
