package domain

import "time"

// Roadmap is a user-authored learning plan. ID, UserID and CreatedAt are fixed
// once the store has persisted the record.
type Roadmap struct {
	ID          int64
	UserID      int64
	Username    string
	Type        string
	Title       string
	Description string
	CreatedAt   time.Time
}

// RoadmapFields holds the owner-editable part of a roadmap.
type RoadmapFields struct {
	Type        string
	Title       string
	Description string
}

// Update replaces the editable fields in place.
func (r *Roadmap) Update(fields RoadmapFields) {
	r.Type = fields.Type
	r.Title = fields.Title
	r.Description = fields.Description
}

// IsWrittenBy reports whether the given user owns the roadmap.
func (r *Roadmap) IsWrittenBy(user *User) bool {
	return user != nil && r.UserID == user.ID
}

// RankedRoadmap is a roadmap annotated with its bookmark count.
type RankedRoadmap struct {
	Roadmap
	BookmarkCount int64
}
