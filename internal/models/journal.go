package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MoodLabels is the canonical label set the classifier may return.
// Anything outside this set is normalized to "neutral".
var MoodLabels = []string{
	"positive", "neutral", "negative",
	"stressed", "anxious", "sad", "angry",
	"grateful", "excited", "tired",
}

// Mood is a classification result attached to a journal entry.
// Score is a discrete 1-5 value.
type Mood struct {
	Label string `bson:"label" json:"label"`
	Score int    `bson:"score" json:"score"`
}

// Journal is one private journal entry.
//
// CreatedAt is epoch milliseconds and is the chronological ordering key.
// DateKey is the "YYYY-MM-DD" partition key derived once at creation and
// never recomputed; month filtering works on half-open DateKey ranges.
// CreatedAtServer is the store-assigned write time, audit only.
type Journal struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID         string             `bson:"owner_id" json:"-"`
	Text            string             `bson:"text" json:"text"`
	Mood            *Mood              `bson:"mood,omitempty" json:"mood,omitempty"`
	Advice          string             `bson:"advice" json:"advice"`
	CreatedAt       int64              `bson:"created_at" json:"created_at"`
	CreatedAtServer time.Time          `bson:"created_at_server" json:"-"`
	DateKey         string             `bson:"date_key" json:"date_key"`
}

// Pagination describes a page's position within the full match set.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}
