/* Copyright 2018-2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NameTransform computes the output property name from the remainder
// of a key after its specifier.
type NameTransform func(remainder string) string

// Identity uses the remainder as the property name.
func Identity(remainder string) string {
	return remainder
}

// CapitalizeFirst gives "on" followed by the remainder with its
// first character upper-cased.
//
//	clicked  -> onClicked
//	didClick -> onDidClick
func CapitalizeFirst(remainder string) string {
	if remainder == "" {
		return "on"
	}
	r, n := utf8.DecodeRuneInString(remainder)
	return "on" + string(unicode.ToUpper(r)) + remainder[n:]
}

// CamelJoin prefixes the remainder with "on_" and joins the words
// separated by runs of characters other than ASCII letters and
// digits.  The first word is lower-cased.  Every later word gets an
// upper-case first letter, and the rest of that word is lower-cased.
//
//	did_click  -> onDidClick
//	did--click -> onDidClick
//	didClick   -> onDidclick
//	_click_    -> onClick
//
// Runs of separators, and separators at either end, produce no empty
// words.
func CamelJoin(remainder string) string {
	words := strings.FieldsFunc("on_"+remainder, func(r rune) bool {
		return !isASCIIAlnum(r)
	})
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		// Words are ASCII only.
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
