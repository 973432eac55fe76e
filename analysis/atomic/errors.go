// Copyright the atomizer authors. All Rights Reserved.
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

package atomic

import "errors"

// ErrUnsupportedInput marks inputs the analysis cannot safely guess intent
// for: composite literals initializing a type that is neither a struct nor
// an array, and type layers the rewriter cannot descend into. Runs failing
// with it terminate without producing output.
var ErrUnsupportedInput = errors.New("unsupported input")

// ErrInconsistent marks internal consistency violations that should never
// trigger on valid input, such as the same declaration requiring two
// different indirection levels. It is a bug report, not a user error.
var ErrInconsistent = errors.New("internal consistency violation")
