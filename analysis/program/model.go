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

// MethodID is the handle of a method in an Arena
type MethodID int

// StmtID is the handle of a statement in an Arena. Two statements at different positions always have different ids,
// even when they are textually identical.
type StmtID int

// Method is a method of the analyzed program. A Method is never modified after the Arena is built.
type Method struct {
	ID  MethodID
	Sig Signature

	// Concrete is false for abstract and interface methods, which have no body and no incoming call edges.
	Concrete bool

	// Library is true for methods that are part of the platform or of a bundled library.
	Library bool

	// Body lists the statements of the method in order. Statement.Index is the position in Body.
	Body []StmtID
}

// Statement is a statement of a method body.
type Statement struct {
	ID     StmtID
	Method MethodID
	Index  int

	// Invoke is true when the statement contains a method invocation; Target is then the invoked signature.
	Invoke bool
	Target Signature

	// Succs are the body indices of the intra-method successors. A nil Succs falls through to the next statement,
	// an empty non-nil Succs marks an exit.
	Succs []int

	// Line is the source line, or 0 if unknown
	Line int
}

// ExceptionRange is a handler covering the body indices [Begin, End) of a method and catching CaughtType and its
// subtypes.
type ExceptionRange struct {
	Begin      int
	End        int
	CaughtType string
}

// Contains returns true if the body index is covered by the range
func (r ExceptionRange) Contains(index int) bool {
	return r.Begin <= index && index < r.End
}

// Model is the read-only view of a whole program used by the misuse detection. All the slices returned are owned by
// the model and must not be modified.
type Model interface {
	// ReachableMethods returns the methods reachable from the entry points, in increasing id order
	ReachableMethods() []MethodID

	Method(MethodID) *Method

	Statement(StmtID) *Statement

	// CallSites returns the invocation statements of the method body, in body order
	CallSites(MethodID) []StmtID

	// CallersOf returns the statements that have a call edge into the method, in increasing id order
	CallersOf(MethodID) []StmtID

	EnclosingMethod(StmtID) MethodID

	// IsExceptionCaughtAt returns true when some handler of m that covers s catches exceptionType or one of its
	// supertypes
	IsExceptionCaughtAt(exceptionType string, s StmtID, m MethodID) bool

	// DominatorsOf returns the statements of m dominating s, from the entry of m down to s itself. It returns nil
	// when s is not reachable from the entry of m.
	DominatorsOf(s StmtID, m MethodID) []StmtID
}
