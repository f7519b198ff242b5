// Copyright 2023 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package ulidutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/solarisdb/lrukv/golibs/errors"
)

// NewID returns new ulid.ULID in string format. IDs are lexicographically
// ordered by the time they were generated, so a record version made later
// compares greater than an earlier one.
func NewID() string {
	return ulid.Make().String()
}

// NewUUID returns new ulid.ULID converted to uuid.UUID in its canonical string form.
func NewUUID() string {
	return uuid.UUID(ulid.Make()).String()
}

// Time returns the moment encoded in the ulidID.
func Time(ulidID string) (time.Time, error) {
	uID, err := ulid.Parse(ulidID)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse ULID=%q: %w", ulidID, errors.ErrInvalid)
	}
	return ulid.Time(uID.Time()), nil
}
