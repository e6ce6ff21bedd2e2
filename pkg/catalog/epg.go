/*
 * stream-share is a project to efficiently share the use of an IPTV service.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package catalog

import (
	"encoding/json"
	"time"

	"github.com/lucasduport/stalker-share/pkg/portal"
)

// Airing holds the programme on air at a given instant and the one after it.
// Either may be nil.
type Airing struct {
	Current json.RawMessage
	Next    json.RawMessage
}

// OnAir picks, in list order, the first programme with
// start_timestamp <= now < stop_timestamp and the first one starting
// after now. Timestamps are unix seconds, as numbers or strings.
func OnAir(programs []json.RawMessage, now time.Time) Airing {
	unix := now.Unix()

	var a Airing
	for _, p := range programs {
		start := portal.IntField(p, "start_timestamp")
		stop := portal.IntField(p, "stop_timestamp")

		if a.Current == nil && start <= unix && stop > unix {
			a.Current = p
		}
		if a.Next == nil && start > unix {
			a.Next = p
		}
		if a.Current != nil && a.Next != nil {
			break
		}
	}
	return a
}
