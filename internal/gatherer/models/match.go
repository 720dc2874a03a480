package models

import "time"

// Match is one gathered chain element. SharingCode is globally unique: the
// same match can be reached through several users' chains, but it is stored
// once. AnalyzedQuality is the highest quality it has ever been queued at and
// only ever increases.
type Match struct {
	ID              int64
	SharingCode     string
	AnalyzedQuality Quality
}

// Upload is one append-only ledger entry, written every time a match is
// published to the queue. Entries are never updated or deleted.
type Upload struct {
	ID              int64
	InternalMatchID int64
	UploaderID      int64
	UploadTime      time.Time
	Quality         Quality
}
