package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FactCheckRecord is a claim paired with one or more third-party review
// verdicts, as returned by the fact-check search API. Records are immutable
// once parsed and are discarded when the user moves to another page or query.
type FactCheckRecord struct {
	Text      string        `json:"text"`                // The claim text itself
	Claimant  string        `json:"claimant,omitempty"`  // Who made the claim
	ClaimDate string        `json:"claimDate,omitempty"` // RFC 3339, as sent by the API
	Reviews   []ClaimReview `json:"claimReview,omitempty"`
}

// ClaimReview is one publisher's verdict on a claim.
type ClaimReview struct {
	Publisher     Publisher `json:"publisher"`
	URL           string    `json:"url,omitempty"`
	Title         string    `json:"title,omitempty"`
	ReviewDate    string    `json:"reviewDate,omitempty"` // RFC 3339, as sent by the API
	TextualRating string    `json:"textualRating,omitempty"`
	LanguageCode  string    `json:"languageCode,omitempty"`
}

// Publisher identifies the organization behind a review.
type Publisher struct {
	Name string `json:"name,omitempty"`
	Site string `json:"site,omitempty"`
}

// ID returns a stable identity for the record. The API provides no opaque
// identifier, so identity is the composite of claim text, first publisher,
// and first review URL.
func (r FactCheckRecord) ID() string {
	var publisher, url string
	if len(r.Reviews) > 0 {
		publisher = r.Reviews[0].Publisher.Name
		url = r.Reviews[0].URL
	}
	hash := sha256.Sum256([]byte(r.Text + "\x00" + publisher + "\x00" + url))
	return hex.EncodeToString(hash[:16])
}

// ReviewTime parses the review date, reporting false when absent or malformed.
func (c ClaimReview) ReviewTime() (time.Time, bool) {
	if c.ReviewDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.ReviewDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
