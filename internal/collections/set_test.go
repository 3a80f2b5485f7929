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

package collections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetContains(t *testing.T) {
	s := ToSet([]string{"a.xs", "b.xs"})
	assert.True(t, s.Contains("a.xs"))
	assert.False(t, s.Contains("c.xs"))

	s.Add("c.xs").Add("a.xs")
	assert.Len(t, s, 3)
	assert.True(t, s.Contains("c.xs"))
}

func TestSetDiff(t *testing.T) {
	all := ToSet([]string{"main.xs", "lib.xs", "util.xs"})
	included := ToSet([]string{"lib.xs", "other.xs"})

	assert.Equal(t, []string{"main.xs", "util.xs"}, all.Diff(included).SortedValues(strings.Compare))
	assert.Empty(t, included.Diff(ToSet([]string{"lib.xs", "other.xs"})))
}
