// Copyright 2024 The Solaris Authors
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

package errors

import (
	"errors"
)

var (
	// ErrInvalid is returned when an argument or a configuration value is not acceptable
	ErrInvalid = errors.New("invalid argument")
	// ErrNotExist is returned when the requested object is not found
	ErrNotExist = errors.New("object does not exist")
	// ErrExist is returned when an object cannot be created, because it already exists
	ErrExist = errors.New("object already exists")
	// ErrClosed is returned when an operation is called on a closed object
	ErrClosed = errors.New("object is closed")
	// ErrExhausted is returned when a resource has no more room for the request
	ErrExhausted = errors.New("resource exhausted")
	// ErrConflict is returned when the object state doesn't allow the operation
	ErrConflict = errors.New("conflict")
	// ErrInternal indicates an unexpected state of the system
	ErrInternal = errors.New("internal error")
	// ErrCommunication is returned when a remote storage could not be reached
	ErrCommunication = errors.New("communication error")
)

// Is is errors.Is, so the package can be imported instead of the standard one
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, so the package can be imported instead of the standard one
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is errors.New, so the package can be imported instead of the standard one
func New(text string) error {
	return errors.New(text)
}

// Join is errors.Join, so the package can be imported instead of the standard one
func Join(errs ...error) error {
	return errors.Join(errs...)
}
