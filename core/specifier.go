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

import "strings"

// Match reports whether the key starts with the given specifier.  If
// so, the remainder after the specifier is also returned.
//
// The comparison is exact: case-sensitive and without trimming.  A
// key that doesn't match isn't an error.  It just belongs to
// somebody else.
func Match(key, specifier string) (remainder string, matches bool) {
	if !strings.HasPrefix(key, specifier) {
		return "", false
	}
	return key[len(specifier):], true
}
