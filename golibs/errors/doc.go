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

/*
Package errors contains some very general class of errors that the lrukv packages
use. The globally defined error variables describe situations that a caller may
want to distinguish (a wrong argument, a missing record, a closed object etc.),
so the packages wrap them with the context details, like:

	return fmt.Errorf("capacity=%d must be positive: %w", capacity, errors.ErrInvalid)

and the callers check the class of the error with errors.Is().
*/
package errors
