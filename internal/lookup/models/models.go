// Package models defines the secondary lookup record: a flat row keyed by an
// external document id, matched by plate number.
package models

// LookupRecord mirrors one row of the userinfo table: an externally issued
// document id, the plate it covers, the document serial, and the flag left by
// the most recent verification attempt.
type LookupRecord struct {
	ID           string `json:"id"`
	PlateNumber  string `json:"plateNumber"`
	SerialNumber string `json:"serialNumber"`
	Verified     bool   `json:"verified"`
}

// Matches reports whether the submitted record carries the same identifying
// fields as the stored one. The Verified flag is an outcome, not an input,
// and is excluded from the comparison.
func (r LookupRecord) Matches(submitted LookupRecord) bool {
	return r.ID == submitted.ID &&
		r.PlateNumber == submitted.PlateNumber &&
		r.SerialNumber == submitted.SerialNumber
}
