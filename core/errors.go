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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a TariffRecord failed validation.
	ErrInvalidRecord = errors.New("invalid tariff record")

	// ErrEmptyCode indicates the Code field is empty.
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrNegativeRate indicates a duty-rate field is negative.
	ErrNegativeRate = errors.New("rate cannot be negative")

	// ErrTruncatedID indicates an encoded ID was shorter than 8 bytes.
	ErrTruncatedID = errors.New("truncated id")
)
