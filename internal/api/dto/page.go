package dto

import "github.com/hiddenpiece/roadmap-service/internal/domain"

// PageResponse is the JSON shape of every paged listing.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// NewPage projects every item of p with project.
func NewPage[S, T any](p domain.Page[S], project func(S) T) PageResponse[T] {
	content := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		content = append(content, project(item))
	}
	return PageResponse[T]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.Total,
		TotalPages:    p.TotalPages(),
		First:         p.Number == 0,
		Last:          p.IsLast(),
		Empty:         len(content) == 0,
	}
}
