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


// Package storage provides the persistence abstraction for the tariff
// dataset.
//
// The dataset is read-only after load: there is no record-level write path,
// only ReplaceAll, which swaps the entire set inside one transaction so a
// reader can never observe a half-replaced dataset.
//
// # Interface Pattern
//
// Callers hold the TariffRepository interface rather than the concrete
// BadgerDB type:
//
//	var repo storage.TariffRepository = badger.NewTariffRepository(backend)
//
// This keeps callers decoupled from BadgerDB specifics and lets tests use
// the in-memory backend without modification.
//
// # Thread Safety
//
// Implementations must be safe for concurrent readers. Writers are not
// concurrent by design; at most one ReplaceAll runs at a time, serialized by
// the owning service.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
