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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"simple", "command -param hello", []string{"command", "-param", "hello"}, false},
		{
			"double quoted span",
			`command -param "hello world"`,
			[]string{"command", "-param", "hello world"},
			false,
		},
		{
			"quoted prefix",
			`"  hello world  " command`,
			[]string{"  hello world  ", "command"},
			false,
		},
		{
			"adjacency merges into current token",
			`-p="a b" x -q=c`,
			[]string{"-p=a b", "x", "-q=c"},
			false,
		},
		{
			"single quotes",
			`echo 'hi there'`,
			[]string{"echo", "hi there"},
			false,
		},
		{
			"backticks",
			"echo `hi there`",
			[]string{"echo", "hi there"},
			false,
		},
		{
			"unclosed quote",
			`command -param "hello`,
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Tokenize(%q): want error, got nil", tt.input)
				}
				var unclosed *ErrUnclosedQuotation
				if !errors.As(err, &unclosed) {
					t.Fatalf("Tokenize(%q): want *ErrUnclosedQuotation, got %T: %v", tt.input, err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Tokenize(%q): unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenizeEmptyInputLaw(t *testing.T) {
	got, err := Tokenize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Tokenize(\"\") = %v, want empty", got)
	}
}

func TestTokenizeAdjacencyLaw(t *testing.T) {
	tests := []struct {
		prefix string
		body   string
	}{
		{"", "hello world"},
		{"-p=", "a b"},
		{"prefix", "quoted body"},
	}
	for _, tt := range tests {
		input := tt.prefix + `"` + tt.body + `"`
		got, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q): unexpected error: %v", input, err)
		}
		want := []string{tt.prefix + tt.body}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Tokenize(%q) mismatch (-want +got):\n%s", input, diff)
		}
	}
}
