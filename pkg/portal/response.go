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
	"strings"

	"github.com/buger/jsonparser"
)

// Shape tells which envelope a list was found under.
type Shape int

const (
	ShapeNone   Shape = iota
	ShapeJSData       // {"js":{"data":[...]}}
	ShapeJS           // {"js":[...]}
	ShapeData         // {"data":[...]}
	ShapeRoot         // [...]
)

func (s Shape) String() string {
	switch s {
	case ShapeJSData:
		return "js.data"
	case ShapeJS:
		return "js"
	case ShapeData:
		return "data"
	case ShapeRoot:
		return "root"
	default:
		return "none"
	}
}

// listPaths is the fixed probe order for list-returning actions.
var listPaths = []struct {
	shape Shape
	keys  []string
}{
	{ShapeJSData, []string{"js", "data"}},
	{ShapeJS, []string{"js"}},
	{ShapeData, []string{"data"}},
	{ShapeRoot, nil},
}

// Response is the body of one successful portal call. The portal answers
// with JSON for almost every action but a few deployments reply with plain
// text; those are kept as text.
type Response struct {
	Status int
	Body   []byte
	JSON   bool
}

// NewResponse classifies body as JSON or text.
func NewResponse(status int, body []byte) *Response {
	return &Response{Status: status, Body: body, JSON: json.Valid(body)}
}

// Text returns the raw body.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Raw returns the body as JSON. Text bodies are wrapped as {"text": ...}.
func (r *Response) Raw() json.RawMessage {
	if r == nil {
		return json.RawMessage("null")
	}
	if r.JSON {
		return json.RawMessage(r.Body)
	}
	wrapped, _ := json.Marshal(map[string]string{"text": string(r.Body)})
	return wrapped
}

// Items probes js.data, js, data and finally the root value for an array
// and returns its elements. A response without any array yields no items
// and ShapeNone; it is never an error.
func (r *Response) Items() ([]json.RawMessage, Shape) {
	if r == nil || !r.JSON {
		return nil, ShapeNone
	}
	for _, p := range listPaths {
		value, dataType, _, err := jsonparser.Get(r.Body, p.keys...)
		if err != nil || dataType != jsonparser.Array {
			continue
		}
		return arrayElements(value), p.shape
	}
	return nil, ShapeNone
}

// Object probes js.data, data then js for an object. Missing objects
// yield "{}".
func (r *Response) Object() json.RawMessage {
	if r == nil || !r.JSON {
		return json.RawMessage("{}")
	}
	for _, keys := range [][]string{{"js", "data"}, {"data"}, {"js"}} {
		value, dataType, _, err := jsonparser.Get(r.Body, keys...)
		if err == nil && dataType == jsonparser.Object {
			return json.RawMessage(value)
		}
	}
	return json.RawMessage("{}")
}

// Pagination reads total_items and max_page_items from js. Either may be a
// number or a quoted number; missing values are 0.
func (r *Response) Pagination() (totalItems, maxPageItems int) {
	if r == nil || !r.JSON {
		return 0, 0
	}
	return flexField(r.Body, "js", "total_items"), flexField(r.Body, "js", "max_page_items")
}

func flexField(body []byte, keys ...string) int {
	return int(IntField(body, keys...))
}

func arrayElements(array []byte) []json.RawMessage {
	items := make([]json.RawMessage, 0)
	jsonparser.ArrayEach(array, func(value []byte, dataType jsonparser.ValueType, _ int, err error) { // nolint: errcheck
		if err != nil {
			return
		}
		// ArrayEach hands strings back without their quotes
		if dataType == jsonparser.String {
			quoted := make([]byte, 0, len(value)+2)
			quoted = append(quoted, '"')
			quoted = append(quoted, value...)
			quoted = append(quoted, '"')
			value = quoted
		}
		elem := make([]byte, len(value))
		copy(elem, value)
		items = append(items, json.RawMessage(elem))
	})
	return items
}

// LooksLikeAuthFailure is the heuristic applied to non-JSON 2xx bodies:
// the portal answers expired sessions with an HTML or XML error page.
func LooksLikeAuthFailure(body []byte) bool {
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "error") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "<?xml")
}
