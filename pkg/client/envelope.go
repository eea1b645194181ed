package client

import (
	"bytes"
	"encoding/json"
)

// The backend has returned the same logical payload under several envelope
// shapes ({data: {items}}, {items}, {data}, bare objects). Each resource lists
// the shapes it accepts as an ordered chain of steps; the first step that is
// present, non-null and decodes into the target type wins.

// step is one candidate location of a payload inside a response body.
type step struct {
	keys        []string
	needSuccess bool
}

// path locates the value at the given key path, e.g. path("data", "items").
func path(keys ...string) step {
	return step{keys: keys}
}

// whole is the response body itself.
func whole() step {
	return step{}
}

// whenSuccess locates the value at keys only when the body has success=true.
func whenSuccess(keys ...string) step {
	return step{keys: keys, needSuccess: true}
}

// Chains shared by most resources.
var (
	// itemsChain: data.items -> items.
	itemsChain = []step{path("data", "items"), path("items")}
	// paginationChain: data.pagination -> pagination.
	paginationChain = []step{path("data", "pagination"), path("pagination")}
)

// nested returns the chain data.<key> -> data -> <key>, used by single-record endpoints.
func nested(key string) []step {
	return []step{path("data", key), path("data"), path(key)}
}

// listOf returns the chain data.<key> -> <key>, used by collection endpoints.
func listOf(key string) []step {
	return []step{path("data", key), path(key)}
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// lookup walks keys through nested JSON objects.
func lookup(body json.RawMessage, keys []string) (json.RawMessage, bool) {
	cur := body
	for _, k := range keys {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return nil, false
		}
		next, ok := obj[k]
		if !ok {
			return nil, false
		}
		cur = next
	}
	if isNull(cur) {
		return nil, false
	}
	return cur, true
}

func succeeded(body json.RawMessage) bool {
	v, ok := lookup(body, []string{"success"})
	if !ok {
		return false
	}
	var b bool
	return json.Unmarshal(v, &b) == nil && b
}

// unwrap decodes the first matching step of chain into a T. ok is false when
// no step matched, in which case the zero T is returned.
func unwrap[T any](body []byte, chain ...step) (out T, ok bool) {
	for _, s := range chain {
		if s.needSuccess && !succeeded(body) {
			continue
		}
		raw, found := lookup(body, s.keys)
		if !found {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		return v, true
	}
	return out, false
}

// unwrapOr is unwrap with an explicit default for absent payloads.
func unwrapOr[T any](body []byte, def T, chain ...step) T {
	if v, ok := unwrap[T](body, chain...); ok {
		return v
	}
	return def
}

// unwrapList is unwrapOr for slices: a missing list is empty, never nil.
func unwrapList[T any](body []byte, chain ...step) []T {
	v, ok := unwrap[[]T](body, chain...)
	if !ok || v == nil {
		return []T{}
	}
	return v
}
