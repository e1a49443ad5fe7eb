// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package program

import (
	"fmt"
	"strings"
)

// Signature identifies a method by its declaring class, name, return type and parameter types. Two signatures are
// equal when all four components are equal; Key returns the canonical string used for map lookups.
type Signature struct {
	Class      string
	Name       string
	ReturnType string
	Params     []string
}

// Key returns the canonical form of the signature, <Class: ReturnType Name(p1,p2)>
func (s Signature) Key() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(s.Class)
	b.WriteString(": ")
	b.WriteString(s.ReturnType)
	b.WriteString(" ")
	b.WriteString(s.Name)
	b.WriteString("(")
	b.WriteString(strings.Join(s.Params, ","))
	b.WriteString(")>")
	return b.String()
}

func (s Signature) String() string {
	return s.Key()
}

// Equal returns true when both signatures have the same class, name, return type and parameter list.
func (s Signature) Equal(other Signature) bool {
	if s.Class != other.Class || s.Name != other.Name || s.ReturnType != other.ReturnType {
		return false
	}
	if len(s.Params) != len(other.Params) {
		return false
	}
	for i, p := range s.Params {
		if p != other.Params[i] {
			return false
		}
	}
	return true
}

// IsZero returns true for the empty signature, which is the target of statements that are not invocations.
func (s Signature) IsZero() bool {
	return s.Class == "" && s.Name == "" && s.ReturnType == "" && len(s.Params) == 0
}

// ParseSignature parses a signature of the form <Class: ReturnType Name(p1,p2)>. Whitespace around parameters is
// ignored. An empty parameter list yields a nil Params. Parameter and return types may contain parenthesized lists,
// as Go function and tuple types do.
func ParseSignature(str string) (Signature, error) {
	s := strings.TrimSpace(str)
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") {
		return Signature{}, fmt.Errorf("signature %q is not enclosed in <>", str)
	}
	s = s[1 : len(s)-1]
	colon := strings.Index(s, ": ")
	if colon <= 0 {
		return Signature{}, fmt.Errorf("signature %q has no declaring class", str)
	}
	class := strings.TrimSpace(s[:colon])
	rest := strings.TrimSpace(s[colon+2:])

	if !strings.HasSuffix(rest, ")") {
		return Signature{}, fmt.Errorf("signature %q has a malformed parameter list", str)
	}
	open := matchingOpen(rest, len(rest)-1)
	if open < 0 {
		return Signature{}, fmt.Errorf("signature %q has a malformed parameter list", str)
	}
	head := strings.TrimSpace(rest[:open])
	space := strings.LastIndex(head, " ")
	if space <= 0 || space == len(head)-1 {
		return Signature{}, fmt.Errorf("signature %q should have a return type and a name", str)
	}

	sig := Signature{
		Class:      class,
		Name:       head[space+1:],
		ReturnType: strings.TrimSpace(head[:space]),
	}
	if params := strings.TrimSpace(rest[open+1 : len(rest)-1]); params != "" {
		for _, p := range splitTopLevel(params) {
			p = strings.TrimSpace(p)
			if p == "" {
				return Signature{}, fmt.Errorf("signature %q has an empty parameter type", str)
			}
			sig.Params = append(sig.Params, p)
		}
	}
	return sig, nil
}

// matchingOpen returns the index of the parenthesis opening the one closed at index closing, or -1
func matchingOpen(s string, closing int) int {
	depth := 0
	for i := closing; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on the commas that are not nested in brackets
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, c := range s {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}
