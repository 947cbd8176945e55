// Copyright 2025 Poiesic Systems
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

package expansion

import "errors"

var (
	// ErrGraphRequired indicates that no lexical graph was supplied.
	ErrGraphRequired = errors.New("lexical graph is required")

	// ErrInvalidConfig indicates an invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid expansion config")

	// ErrNotConverged indicates that expansion hit the round cap before converging.
	ErrNotConverged = errors.New("expansion did not converge")
)
