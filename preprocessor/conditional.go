// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package preprocessor

import "github.com/EngFlow/adex/internal/collections"

type (
	// conditional is an open #ifdef block.
	conditional struct {
		active bool
		opened Location // location of the '#' of the #ifdef
	}

	// conditionalStack records the open #ifdef blocks, innermost last.
	conditionalStack struct {
		collections.Stack[conditional]
	}
)

// inactive reports whether the innermost open block is inactive, meaning its content must be discarded.
func (c *conditionalStack) inactive() bool {
	return !c.Empty() && !c.Peek().active
}

// outermost returns the location of the first still open block. The stack must not be empty.
func (c *conditionalStack) outermost() Location {
	return c.Bottom().opened
}
