// Copyright 2026 stone_skipper contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"fmt"
	"regexp"
)

// placeholderPattern finds every maximal {{...}} span with a non-empty body.
var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Route is a compiled route pattern: a regular expression that matches full
// request paths, plus the ordered list of placeholder names captured by it.
type Route struct {
	Matcher *regexp.Regexp
	Params  []string
}

// CompileRoute translates a route pattern such as "/greet/{{who}}" into a
// Route. Every {{name}} placeholder becomes a capturing group matching
// "(.+)", in declaration order.
func CompileRoute(pattern string) (*Route, error) {
	var params []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(pattern, -1) {
		params = append(params, m[1])
	}

	expr := placeholderPattern.ReplaceAllString(pattern, "(.+)")
	matcher, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, fmt.Errorf("command: cannot compile route %q: %w", pattern, err)
	}
	if matcher.NumSubexp() != len(params) {
		return nil, fmt.Errorf("command: route %q produced %d captures for %d placeholders", pattern, matcher.NumSubexp(), len(params))
	}
	return &Route{Matcher: matcher, Params: params}, nil
}

// Match reports whether path fully matches the route, returning the captured
// placeholder values in declaration order when it does.
func (r *Route) Match(path string) (captures []string, ok bool) {
	m := r.Matcher.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// Placeholders returns every {{name}} placeholder name found in s, in order,
// including repeats.
func Placeholders(s string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

// Substitute replaces every {{name}} occurrence in s using lookup. If
// lookup returns ok=false for any placeholder name, Substitute returns that
// name as missing and performs no substitution for it (but still replaces
// the others); callers should treat a non-empty missing name as a hard
// failure per the Task Processor's substitution contract.
func Substitute(s string, lookup func(name string) (value string, ok bool)) (result string, missing string) {
	result = placeholderPattern.ReplaceAllStringFunc(s, func(tok string) string {
		name := tok[2 : len(tok)-2]
		value, ok := lookup(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return tok
		}
		return value
	})
	return result, missing
}
