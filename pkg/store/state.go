package store

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/critterdex/pkg/profile"
)

// Record names. Both backends persist the same two records as JSON text.
const (
	RecordProfiles    = "profiles"
	RecordActiveIndex = "active-index"
)

// State is the full durable profile state. It is always written and read as a
// whole.
type State struct {
	Profiles    []profile.Profile
	ActiveIndex int
}

// StorageError reports a failed read, decode or write of the durable state.
type StorageError struct {
	Op     string
	Record string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Record, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type records struct {
	profiles    []byte
	activeIndex []byte
}

func encodeState(s State) (records, error) {
	list := s.Profiles
	if list == nil {
		list = []profile.Profile{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return records{}, &StorageError{Op: "encode", Record: RecordProfiles, Err: err}
	}
	return records{
		profiles:    b,
		activeIndex: []byte(strconv.Itoa(s.ActiveIndex)),
	}, nil
}

// decodeState turns raw records into a State. A nil profiles record means no
// state has been written yet. An unreadable active index falls back to 0; the
// caller clamps it into range.
func decodeState(r records) (State, error) {
	if r.profiles == nil {
		return State{}, nil
	}
	list, err := profile.DecodeList(r.profiles)
	if err != nil {
		return State{}, &StorageError{Op: "decode", Record: RecordProfiles, Err: err}
	}
	idx := 0
	if r.activeIndex != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(string(r.activeIndex))); err == nil {
			idx = n
		}
	}
	return State{Profiles: list, ActiveIndex: idx}, nil
}

// Digest identifies a state by content. Two states with equal digests encode
// to the same records.
func Digest(s State) string {
	r, err := encodeState(s)
	if err != nil {
		return ""
	}
	h := md5.New()
	h.Write(r.profiles)
	h.Write([]byte{0})
	h.Write(r.activeIndex)
	return fmt.Sprintf("%x", h.Sum(nil))
}
