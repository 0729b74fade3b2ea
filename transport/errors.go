// Copyright (C) 2025 anp-x
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package transport

import "github.com/anp-x/anp-go/internal/logger"

func newNetworkError(message string, cause error, statusCode int) *logger.ANPError {
	err := logger.NewANPError(logger.ErrCodeNetwork, message, cause)
	if statusCode != 0 {
		err = err.WithDetails("statusCode", statusCode)
	}
	return err
}
