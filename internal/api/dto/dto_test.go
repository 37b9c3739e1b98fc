package dto

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiddenpiece/roadmap-service/internal/domain"
	apperrors "github.com/hiddenpiece/roadmap-service/pkg/util/errorutil"
)

func TestValidate_RoadmapRequest(t *testing.T) {
	assert.NoError(t, Validate(RoadmapRequest{Title: "Backend Path", Description: "..."}))

	err := Validate(RoadmapRequest{Type: "career"})
	require.Error(t, err)

	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "required", de.Details["title"])
	assert.Equal(t, "required", de.Details["description"])
}

func TestValidate_UserJoinRequest(t *testing.T) {
	err := Validate(UserJoinRequest{Username: "al", Email: "nope", Password: "short"})
	require.Error(t, err)

	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "min", de.Details["username"])
	assert.Equal(t, "email", de.Details["email"])
	assert.Equal(t, "min", de.Details["password"])
}

func TestValidate_PasswordLengthBounds(t *testing.T) {
	ok := UserJoinRequest{Username: "carol", Email: "carol@example.com", Password: strings.Repeat("x", 72)}
	assert.NoError(t, Validate(ok))

	tooLong := ok
	tooLong.Password = strings.Repeat("x", 73)
	err := Validate(tooLong)

	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "max", de.Details["password"])
}

func TestNormalize_BlankFieldsFailValidation(t *testing.T) {
	req := RoadmapRequest{Type: " career ", Title: "   ", Description: "\t"}
	req.Normalize()

	assert.Equal(t, "career", req.Type)
	err := Validate(req)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "required", de.Details["title"])
	assert.Equal(t, "required", de.Details["description"])

	join := UserJoinRequest{Username: "  a  ", Email: " a@example.com ", Password: "s3cret-pass"}
	join.Normalize()
	assert.Equal(t, "a", join.Username)
	assert.Equal(t, "a@example.com", join.Email)
	require.True(t, errors.As(Validate(join), &de))
	assert.Equal(t, "min", de.Details["username"])
}

func TestNewRoadmapResponse(t *testing.T) {
	created := time.Date(2023, 2, 3, 4, 5, 6, 0, time.UTC)
	resp := NewRoadmapResponse(&domain.Roadmap{
		ID: 1, UserID: 9, Username: "alice", Type: "career", Title: "t", Description: "d", CreatedAt: created,
	})

	assert.Equal(t, RoadmapResponse{ID: 1, Type: "career", Title: "t", Username: "alice", Description: "d", CreatedAt: created}, resp)
}

func TestNewPage(t *testing.T) {
	page := domain.Page[domain.RankedRoadmap]{
		Items:  []domain.RankedRoadmap{{Roadmap: domain.Roadmap{ID: 1, Title: "a"}, BookmarkCount: 2}},
		Number: 0,
		Size:   10,
		Total:  11,
	}

	resp := NewPage(page, NewSearchRoadmapResponse)

	require.Len(t, resp.Content, 1)
	assert.Equal(t, int64(2), resp.Content[0].BookmarkCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.True(t, resp.First)
	assert.False(t, resp.Last)
	assert.False(t, resp.Empty)
}

func TestNewPage_EmptyContentIsNotNull(t *testing.T) {
	resp := NewPage(domain.Page[domain.RankedRoadmap]{Size: 10}, NewMyPageRoadmapResponse)

	assert.NotNil(t, resp.Content)
	assert.True(t, resp.Empty)
	assert.True(t, resp.Last)
}
