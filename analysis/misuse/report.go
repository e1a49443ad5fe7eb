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

package misuse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/internal/formatutil"
)

// JSONRecord is the serialized form of a Record
type JSONRecord struct {
	Method      string   `json:"method"`
	Index       int      `json:"index"`
	Line        int      `json:"line,omitempty"`
	Call        string   `json:"call"`
	Permissions []string `json:"permissions"`
}

// ToJSON returns the serializable form of the records
func ToJSON(model program.Model, records []Record) []JSONRecord {
	res := make([]JSONRecord, 0, len(records))
	for _, r := range records {
		st := model.Statement(r.Stmt)
		res = append(res, JSONRecord{
			Method:      model.Method(r.Method).Sig.Key(),
			Index:       st.Index,
			Line:        st.Line,
			Call:        r.Sensitive.Sig.Key(),
			Permissions: r.Sensitive.Permissions,
		})
	}
	return res
}

// WriteJSON writes the records as a JSON array
func WriteJSON(w io.Writer, model program.Model, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToJSON(model, records)); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}

// WriteText writes one line per record:
//
//	<method>[line]: unguarded call to <sensitive method> requires p1, p2
//
// The statement index is used when the line is unknown.
func WriteText(w io.Writer, model program.Model, records []Record) error {
	for _, r := range records {
		st := model.Statement(r.Stmt)
		pos := fmt.Sprintf("#%d", st.Index)
		if st.Line > 0 {
			pos = fmt.Sprintf("line %d", st.Line)
		}
		_, err := fmt.Fprintf(w, "%s [%s]: unguarded call to %s requires %s\n",
			formatutil.Sanitize(model.Method(r.Method).Sig.Key()),
			pos,
			formatutil.Sanitize(r.Sensitive.Sig.Key()),
			formatutil.JoinSorted(r.Sensitive.Permissions, ", "))
		if err != nil {
			return fmt.Errorf("could not write report: %w", err)
		}
	}
	return nil
}
