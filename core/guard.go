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

// unsafeExpressions are expressions that look like an attempt to
// reach object prototype internals.
var unsafeExpressions = map[string]bool{
	"__proto__":   true,
	"prototype":   true,
	"constructor": true,
}

// IsUnsafe reports whether the entire expression is one of the
// denied tokens.
//
// This check is exact-match only.  An expression that merely
// contains one of those tokens (say "__proto__()" or
// "x.constructor") isn't rejected here.  Broadening the check would
// change which expressions are accepted.
func IsUnsafe(expr string) bool {
	return unsafeExpressions[expr]
}
