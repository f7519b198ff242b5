// Copyright 2023 The acquirecloud Authors
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
/*
Package logging defines the Logger interface the lrukv packages write to.

Every component gets its named logger once:

	logger := logging.NewLogger("cache.CachedStorage")
	logger.Debugf("record %s is loaded", key)

The level is global and may be changed at any time with SetLevel. The default
backend writes one line per record to stderr; SetConfig replaces the backend
as a whole.
*/
package logging
