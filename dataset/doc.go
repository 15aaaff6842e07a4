// Copyright 2025 Kosdata
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


// Package dataset loads the bundled tariff dataset into domain records.
//
// The source format is a single JSON array of objects with the fields
// code, description, percentage, cefta, msa, trmtl, tvsh, excise,
// validFrom, uomCode and optionally parentId. Real-world exports are
// sloppy about types (rates as strings, nulls everywhere), so decoding is
// tolerant: missing or non-numeric rate fields coerce to 0, missing
// strings to "", missing optionals stay empty.
package dataset
