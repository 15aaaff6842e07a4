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


// Package index provides the full-text search index over tariff
// descriptions.
//
// Matching is case- and diacritic-insensitive and works on token prefixes:
// the query "çel" matches a description containing "çeliku". Multi-token
// queries combine with AND semantics; quoted phrases are matched as one
// contiguous term. Hits carry the original description with every matched
// token wrapped in <mark> markers, so consumers render emphasis without
// re-tokenizing.
//
// Token postings live in a patricia trie, which makes prefix term lookup a
// subtree visit instead of a full vocabulary scan.
package index
