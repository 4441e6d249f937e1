package storage

import "ideascout/internal/models"

// LookupState says whether the destination store had any recorded IDs.
type LookupState int

const (
	// LookupEmpty means the store was absent, uninitialized, or held no rows.
	LookupEmpty LookupState = iota
	// LookupFound means at least one recorded ID was read from the store.
	LookupFound
)

// IDLookup is the result of reading recorded video IDs from the destination
// store. It distinguishes an empty store from a populated one explicitly
// instead of leaving callers to inspect error codes.
type IDLookup struct {
	State LookupState
	IDs   map[string]struct{}
}

// EmptyLookup is the lookup used when the store has no recorded IDs yet.
func EmptyLookup() IDLookup {
	return IDLookup{State: LookupEmpty}
}

// NewLookup builds a lookup from the IDs read out of the store. Blank
// entries are ignored; an all-blank or empty slice yields LookupEmpty.
func NewLookup(ids []string) IDLookup {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	if len(set) == 0 {
		return EmptyLookup()
	}
	return IDLookup{State: LookupFound, IDs: set}
}

func (l IDLookup) Contains(id string) bool {
	if l.State == LookupEmpty {
		return false
	}
	_, ok := l.IDs[id]
	return ok
}

func (l IDLookup) Count() int {
	return len(l.IDs)
}

// FilterNew returns the videos whose ID is not in the lookup, preserving
// input order. With an empty lookup the input comes back unchanged.
func FilterNew(videos []*models.Video, seen IDLookup) []*models.Video {
	if seen.State == LookupEmpty {
		return videos
	}
	fresh := make([]*models.Video, 0, len(videos))
	for _, video := range videos {
		if seen.Contains(video.ID) {
			continue
		}
		fresh = append(fresh, video)
	}
	return fresh
}
