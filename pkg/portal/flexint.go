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

package portal

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// FlexInt is an integer the portal sends either as a JSON number or as a
// quoted string ("14"). Empty, null and unparsable values decode to 0.
type FlexInt int64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (fi *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" || s == `""` {
		*fi = 0
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return utils.PrintErrorAndReturn(err)
		}
		s = strings.TrimSpace(str)
	}

	*fi = FlexInt(parseFlexInt(s))
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (fi FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(fi))
}

// Int returns the int value of the FlexInt
func (fi FlexInt) Int() int {
	return int(fi)
}

// parseFlexInt accepts "42", "42.0" and " 42 ". Anything else is 0.
func parseFlexInt(s string) int64 {
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	utils.DebugLog("Warning: cannot convert %q to integer, defaulting to 0", s)
	return 0
}

// IntField reads the number or numeric string at keys, 0 when missing.
func IntField(body []byte, keys ...string) int64 {
	value, dataType, _, err := jsonparser.Get(body, keys...)
	if err != nil {
		return 0
	}
	switch dataType {
	case jsonparser.Number, jsonparser.String:
		return parseFlexInt(strings.TrimSpace(string(value)))
	default:
		return 0
	}
}

// StringField reads the string or number at keys. Ids come both ways
// depending on the portal build.
func StringField(body []byte, keys ...string) string {
	value, dataType, _, err := jsonparser.Get(body, keys...)
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		if s, err := jsonparser.ParseString(value); err == nil {
			return s
		}
		return string(value)
	case jsonparser.Number:
		return string(value)
	default:
		return ""
	}
}
