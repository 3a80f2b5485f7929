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

// Directive identifies one of the preprocessor directives, the keyword following '#'.
type Directive int

const (
	DirectiveInclude Directive = iota
	DirectiveDefine
	DirectiveUndef
	DirectiveIfdef
	DirectiveEndif
)

var directiveKeywords = map[string]Directive{
	"include": DirectiveInclude,
	"define":  DirectiveDefine,
	"undef":   DirectiveUndef,
	"ifdef":   DirectiveIfdef,
	"endif":   DirectiveEndif,
}

// lookupDirective maps a directive keyword to its Directive. The second result is false for unknown keywords.
func lookupDirective(keyword string) (Directive, bool) {
	d, ok := directiveKeywords[keyword]
	return d, ok
}

func (d Directive) String() string {
	switch d {
	case DirectiveInclude:
		return "#include"
	case DirectiveDefine:
		return "#define"
	case DirectiveUndef:
		return "#undef"
	case DirectiveIfdef:
		return "#ifdef"
	case DirectiveEndif:
		return "#endif"
	default:
		return "unknown directive"
	}
}
