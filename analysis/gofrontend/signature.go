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
	"go/types"

	"github.com/dong-li-awx/revdroid/analysis/program"
	"golang.org/x/tools/go/ssa"
)

// qualifier writes package paths in full
var qualifier = types.RelativeTo(nil)

func typeString(t types.Type) string {
	return types.TypeString(t, qualifier)
}

// returnType is void for functions without results, the type of the result for a single result, and the tuple of
// the results otherwise
func returnType(sig *types.Signature) string {
	switch sig.Results().Len() {
	case 0:
		return "void"
	case 1:
		return typeString(sig.Results().At(0).Type())
	default:
		return types.TypeString(sig.Results(), qualifier)
	}
}

func params(sig *types.Signature) []string {
	var res []string
	for i := 0; i < sig.Params().Len(); i++ {
		res = append(res, typeString(sig.Params().At(i).Type()))
	}
	return res
}

// FunctionSignature returns the signature of f. The class of a method is its receiver type, the class of a function
// is its package path.
func FunctionSignature(f *ssa.Function) program.Signature {
	class := "?"
	if recv := f.Signature.Recv(); recv != nil {
		class = typeString(recv.Type())
	} else if f.Pkg != nil {
		class = f.Pkg.Pkg.Path()
	} else if obj := f.Object(); obj != nil && obj.Pkg() != nil {
		class = obj.Pkg().Path()
	}
	return program.Signature{
		Class:      class,
		Name:       f.Name(),
		ReturnType: returnType(f.Signature),
		Params:     params(f.Signature),
	}
}

// CalleeSignature returns the signature of the function invoked by call. Interface method calls have the interface
// type as class, and calls of builtins have class builtin.
func CalleeSignature(call *ssa.CallCommon) program.Signature {
	if call.IsInvoke() {
		sig := call.Method.Type().(*types.Signature)
		return program.Signature{
			Class:      typeString(call.Value.Type()),
			Name:       call.Method.Name(),
			ReturnType: returnType(sig),
			Params:     params(sig),
		}
	}
	if callee := call.StaticCallee(); callee != nil {
		return FunctionSignature(callee)
	}
	if b, ok := call.Value.(*ssa.Builtin); ok {
		return program.Signature{
			Class:      "builtin",
			Name:       b.Name(),
			ReturnType: returnType(call.Signature()),
			Params:     params(call.Signature()),
		}
	}
	// dynamic call of a function value
	return program.Signature{
		Class:      "func",
		Name:       call.Value.Name(),
		ReturnType: returnType(call.Signature()),
		Params:     params(call.Signature()),
	}
}
