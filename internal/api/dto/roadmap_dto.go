package dto

import (
	"strings"
	"time"

	"github.com/hiddenpiece/roadmap-service/internal/domain"
)

// RoadmapRequest is the create/update payload.
type RoadmapRequest struct {
	Type        string `json:"type" validate:"max=50"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

// Normalize trims surrounding whitespace so blank fields fail validation.
func (r *RoadmapRequest) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// RoadmapResponse is the public projection of a roadmap.
type RoadmapResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Top5RoadmapResponse is a row of the top5 listings.
type Top5RoadmapResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Username      string    `json:"username"`
	BookmarkCount int64     `json:"bookmarkCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SearchRoadmapResponse is a row of the search listings.
type SearchRoadmapResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Username      string    `json:"username"`
	Description   string    `json:"description"`
	BookmarkCount int64     `json:"bookmarkCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FollowingRoadmapResponse is a row of the followings feed.
type FollowingRoadmapResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// MyPageRoadmapResponse is a row of profile and my-page listings.
type MyPageRoadmapResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageResponse carries a fixed confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewRoadmapResponse projects a roadmap.
func NewRoadmapResponse(r *domain.Roadmap) RoadmapResponse {
	return RoadmapResponse{
		ID:          r.ID,
		Type:        r.Type,
		Title:       r.Title,
		Username:    r.Username,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func NewTop5RoadmapResponse(r domain.RankedRoadmap) Top5RoadmapResponse {
	return Top5RoadmapResponse{
		ID:            r.ID,
		Type:          r.Type,
		Title:         r.Title,
		Username:      r.Username,
		BookmarkCount: r.BookmarkCount,
		CreatedAt:     r.CreatedAt,
	}
}

func NewSearchRoadmapResponse(r domain.RankedRoadmap) SearchRoadmapResponse {
	return SearchRoadmapResponse{
		ID:            r.ID,
		Type:          r.Type,
		Title:         r.Title,
		Username:      r.Username,
		Description:   r.Description,
		BookmarkCount: r.BookmarkCount,
		CreatedAt:     r.CreatedAt,
	}
}

func NewFollowingRoadmapResponse(r domain.RankedRoadmap) FollowingRoadmapResponse {
	return FollowingRoadmapResponse{
		ID:        r.ID,
		Type:      r.Type,
		Title:     r.Title,
		Username:  r.Username,
		CreatedAt: r.CreatedAt,
	}
}

func NewMyPageRoadmapResponse(r domain.RankedRoadmap) MyPageRoadmapResponse {
	return MyPageRoadmapResponse{
		ID:          r.ID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}
