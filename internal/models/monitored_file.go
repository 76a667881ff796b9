package models

import "time"

// Version is one captured snapshot of a target's content.
type Version struct {
	Fingerprint string    `json:"file_hash"`
	URL         string    `json:"js_url"`
	Content     []byte    `json:"-"`
	CapturedAt  time.Time `json:"timestamp"`
	Size        int       `json:"file_size"`
}

// VersionMetadata is the on-disk metadata record stored next to a version's content.
type VersionMetadata struct {
	Fingerprint string    `json:"file_hash"`
	URL         string    `json:"js_url"`
	CapturedAt  time.Time `json:"timestamp"`
	Size        int       `json:"file_size"`
}

// TargetPointer tracks the latest fingerprint of a target and its ordered history.
type TargetPointer struct {
	URL       string    `json:"url"`
	Latest    string    `json:"latest"`
	History   []string  `json:"history"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Initial returns the first fingerprint ever recorded for the target.
func (p *TargetPointer) Initial() string {
	if p == nil || len(p.History) == 0 {
		return ""
	}
	return p.History[0]
}

// Transition is an ordered pair of fingerprints for one target.
type Transition struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}
