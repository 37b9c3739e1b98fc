package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBuildWhere_NoFilters(t *testing.T) {
	where, args := buildWhere(RoadmapFilter{})

	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestBuildWhere_OwnerYearAndType(t *testing.T) {
	userID := int64(3)
	roadmapType := "career"
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)

	where, args := buildWhere(RoadmapFilter{
		UserID:      &userID,
		Type:        &roadmapType,
		CreatedFrom: &from,
		CreatedTo:   &to,
	})

	assert.Equal(t, "1=1 AND r.user_id=$1 AND r.type=$2 AND r.created_at >= $3 AND r.created_at <= $4", where)
	assert.Equal(t, []any{userID, roadmapType, from, to}, args)
}

func TestBuildWhere_Followings(t *testing.T) {
	followerID := int64(9)

	where, args := buildWhere(RoadmapFilter{FollowerID: &followerID})

	assert.Contains(t, where, "r.user_id IN (SELECT f.following_id FROM follows f WHERE f.follower_id=$1)")
	assert.Equal(t, []any{followerID}, args)
}

func TestBuildWhere_KeywordIsLoweredAndShared(t *testing.T) {
	keyword := "  Backend "

	where, args := buildWhere(RoadmapFilter{Keyword: &keyword})

	assert.Equal(t, `1=1 AND (LOWER(r.title) LIKE $1 ESCAPE '\' OR LOWER(r.description) LIKE $1 ESCAPE '\' OR LOWER(r.type) LIKE $1 ESCAPE '\')`, where)
	assert.Equal(t, []any{"%backend%"}, args)
}

func TestBuildWhere_KeywordWildcardsAreLiteral(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"%", `%\%%`},
		{"_", `%\_%`},
		{`c:\go`, `%c:\\go%`},
		{"50%_off", `%50\%\_off%`},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			keyword := tt.keyword
			_, args := buildWhere(RoadmapFilter{Keyword: &keyword})
			assert.Equal(t, []any{tt.want}, args)
		})
	}
}

func TestBuildWhere_BlankKeywordIgnored(t *testing.T) {
	keyword := "   "

	where, args := buildWhere(RoadmapFilter{Keyword: &keyword})

	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name  string
		order RoadmapOrder
		want  string
	}{
		{"zero value is newest first", RoadmapOrder{}, "r.created_at DESC, r.id DESC"},
		{"id descending", RoadmapOrder{Field: SortByID}, "r.id DESC"},
		{"bookmarks", RoadmapOrder{Field: SortByBookmarks}, "bookmark_count DESC, r.id DESC"},
		{"title ascending", RoadmapOrder{Field: SortByTitle, Ascending: true}, "r.title ASC, r.id DESC"},
		{"random", RoadmapOrder{Field: SortRandom, Ascending: true}, "RANDOM()"},
		{"unknown falls back", RoadmapOrder{Field: "password_hash; DROP TABLE users"}, "r.created_at DESC, r.id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.order))
		})
	}
}

func TestBuildListQuery_Pagination(t *testing.T) {
	roadmapType := "study"

	query, args := buildListQuery(RoadmapFilter{Type: &roadmapType, Limit: 10, Offset: 20})

	assert.Contains(t, query, "WHERE 1=1 AND r.type=$1 ORDER BY r.created_at DESC, r.id DESC LIMIT 10 OFFSET 20")
	assert.Contains(t, query, "AS bookmark_count")
	assert.Equal(t, []any{roadmapType}, args)
}

func TestBuildListQuery_NoLimit(t *testing.T) {
	query, _ := buildListQuery(RoadmapFilter{})

	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "OFFSET")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}
