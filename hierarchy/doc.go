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


// Package hierarchy derives the tariff tree from the flat record set.
//
// A record's parent is its explicit ParentCode when that references an
// existing record, otherwise the longest proper prefix of its code that is
// itself a code in the set. A record with no resolvable parent is a root.
// Root resolution is iterative, memoized, and guarded against cyclic parent
// references from bad input.
//
// The package also owns the materialized Snapshot (code lookup map, per-root
// buckets, stable root order) that makes subtree retrieval proportional to
// the subtree instead of the whole dataset, and the pure BuildTree function
// that turns any flat row list into a nested tree with deterministic sibling
// ordering.
package hierarchy
