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

package gofrontend

import (
	"golang.org/x/tools/go/ssa"
)

// PanicType is the root of the failure types of Go programs. A deferred call to a function that recovers catches it.
const PanicType = "panic"

func doesRecover(f *ssa.Function) bool {
	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			if call, ok := instr.(*ssa.Call); ok && !call.Call.IsInvoke() {
				if builtin, ok := call.Call.Value.(*ssa.Builtin); ok && builtin.Name() == "recover" {
					return true
				}
			}
		}
	}
	return false
}

// deferredFunction returns the function deferred by d, if it is known statically
func deferredFunction(d *ssa.Defer) *ssa.Function {
	if d.Call.IsInvoke() {
		return nil
	}
	switch value := d.Call.Value.(type) {
	case *ssa.Function:
		return value
	case *ssa.MakeClosure:
		if fn, ok := value.Fn.(*ssa.Function); ok {
			return fn
		}
	}
	return nil
}

// recoveryStart returns the index, in the entry block of f, of the first deferred call to a function that recovers,
// and false if there is none. Defers in other blocks are conditional and are not considered.
func recoveryStart(f *ssa.Function, recovers func(*ssa.Function) bool) (int, bool) {
	if len(f.Blocks) == 0 {
		return 0, false
	}
	for i, instr := range f.Blocks[0].Instrs {
		if d, ok := instr.(*ssa.Defer); ok {
			if fn := deferredFunction(d); fn != nil && recovers(fn) {
				return i, true
			}
		}
	}
	return 0, false
}
