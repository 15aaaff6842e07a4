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


// Package query combines code-prefix filtering and full-text search into
// renderable result sets.
//
// Candidates from either filter are expanded to their complete subtrees
// plus the minimal ancestor chain, so a non-root match still renders nested
// under its real ancestors instead of appearing as its own root. Results are
// emitted in the snapshot's stable root order and truncated
// deterministically at the item limit.
//
// Query-time failures (storage reads, index builds) never propagate to the
// caller: they are logged and the query yields an empty, renderable result.
package query
