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

// A generic last-in-first-out stack backed by a slice. The zero value is an
// empty stack ready to use.
type Stack[T any] struct {
	elems []T
}

// Checks whether the stack is empty.
func (s Stack[T]) Empty() bool {
	return len(s.elems) == 0
}

// Returns the number of elements on the stack.
func (s Stack[T]) Len() int {
	return len(s.elems)
}

// Pushes an element onto the top of the stack.
func (s *Stack[T]) Push(elem T) {
	s.elems = append(s.elems, elem)
}

// Pops the most recently pushed element. Will panic if the stack is empty.
func (s *Stack[T]) Pop() T {
	last := s.elems[len(s.elems)-1]
	var zero T
	s.elems[len(s.elems)-1] = zero
	s.elems = s.elems[:len(s.elems)-1]
	return last
}

// Peeks at the most recently pushed element without removing it. Will panic if
// the stack is empty.
func (s Stack[T]) Peek() T {
	return s.elems[len(s.elems)-1]
}

// Returns the least recently pushed element without removing it. Will panic if
// the stack is empty.
func (s Stack[T]) Bottom() T {
	return s.elems[0]
}

// Removes all elements from the stack.
func (s *Stack[T]) Clear() {
	clear(s.elems)
	s.elems = s.elems[:0]
}
