package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hiddenpiece/roadmap-service/internal/domain"
	"github.com/hiddenpiece/roadmap-service/internal/repository"
	apperrors "github.com/hiddenpiece/roadmap-service/pkg/util/errorutil"
)

const (
	// SearchPageSize is the fixed page size of the public search and profile listings.
	SearchPageSize = 10
	// MaxPageSize bounds caller-chosen page sizes.
	MaxPageSize    = 100
	topCount       = 5
)

// Top5 keywords accepted by ReadTop5.
const (
	Top5Latest     = ""
	Top5Popularity = "popularity"
	Top5Recommend  = "recommend"
)

// RoadmapService enforces identity and ownership rules around roadmap storage.
type RoadmapService struct {
	roadmaps repository.RoadmapRepository
	users    repository.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

// RoadmapDependencies bundles collaborators for the roadmap service.
type RoadmapDependencies struct {
	RoadmapRepo repository.RoadmapRepository
	UserRepo    repository.UserRepository
	Logger      *zap.Logger
}

// RoadmapInput carries the owner-editable fields of a roadmap.
type RoadmapInput struct {
	Type        string
	Title       string
	Description string
}

// NewRoadmapService constructs the service.
func NewRoadmapService(deps RoadmapDependencies) *RoadmapService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapService{
		roadmaps: deps.RoadmapRepo,
		users:    deps.UserRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a new roadmap owned by username.
func (s *RoadmapService) Create(ctx context.Context, username string, input RoadmapInput) (*domain.Roadmap, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	user, err := s.loginUser(ctx, username)
	if err != nil {
		return nil, err
	}

	roadmap := &domain.Roadmap{
		UserID:      user.ID,
		Username:    user.Username,
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
	}
	if err := s.roadmaps.Create(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("create roadmap: %w", err)
	}

	s.logger.Info("roadmap created", zap.Int64("roadmap_id", roadmap.ID), zap.String("username", username))
	return roadmap, nil
}

// ReadByOwnerAndFilter lists the caller's roadmaps, optionally limited to a
// calendar year and a type. A filter that matches nothing is an error.
func (s *RoadmapService) ReadByOwnerAndFilter(ctx context.Context, username string, year *int, roadmapType *string) ([]domain.Roadmap, error) {
	user, err := s.loginUser(ctx, username)
	if err != nil {
		return nil, err
	}

	filter := repository.RoadmapFilter{UserID: &user.ID, Type: roadmapType}
	if year != nil {
		from, to := yearBounds(*year)
		filter.CreatedFrom = &from
		filter.CreatedTo = &to
	}

	items, err := s.roadmaps.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNoMatchingRoadmaps
	}

	s.logger.Debug("owner roadmaps read", zap.String("username", username), zap.Int("count", len(items)))
	return plainRoadmaps(items), nil
}

// ReadOne returns a roadmap by id. Any authenticated caller may read any roadmap.
func (s *RoadmapService) ReadOne(ctx context.Context, username string, id int64) (*domain.Roadmap, error) {
	roadmap, err := s.findRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("roadmap read", zap.Int64("roadmap_id", id), zap.String("username", username))
	return roadmap, nil
}

// Update replaces type, title and description of a roadmap owned by username.
func (s *RoadmapService) Update(ctx context.Context, id int64, username string, input RoadmapInput) (*domain.Roadmap, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	roadmap, err := s.writableRoadmap(ctx, id, username)
	if err != nil {
		return nil, err
	}

	roadmap.Update(domain.RoadmapFields{
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
	})
	if err := s.roadmaps.Update(ctx, roadmap); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("update roadmap: %w", err)
	}

	s.logger.Info("roadmap updated", zap.Int64("roadmap_id", id), zap.String("username", username))
	return roadmap, nil
}

// Delete permanently removes a roadmap owned by username and returns the removed record.
func (s *RoadmapService) Delete(ctx context.Context, id int64, username string) (*domain.Roadmap, error) {
	roadmap, err := s.writableRoadmap(ctx, id, username)
	if err != nil {
		return nil, err
	}

	if err := s.roadmaps.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("delete roadmap: %w", err)
	}

	s.logger.Info("roadmap deleted", zap.Int64("roadmap_id", id), zap.String("username", username))
	return roadmap, nil
}

// Count returns the number of stored roadmaps.
func (s *RoadmapService) Count(ctx context.Context) (int64, error) {
	return s.roadmaps.Count(ctx, repository.RoadmapFilter{})
}

// CountCreatedToday returns the number of roadmaps created on the current UTC day.
func (s *RoadmapService) CountCreatedToday(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Second)
	return s.roadmaps.Count(ctx, repository.RoadmapFilter{CreatedFrom: &from, CreatedTo: &to})
}

// ReadTop5 returns five roadmaps: newest, most bookmarked or a random sample.
func (s *RoadmapService) ReadTop5(ctx context.Context, keyword string) ([]domain.RankedRoadmap, error) {
	var order repository.RoadmapOrder
	switch keyword {
	case Top5Latest:
		order = repository.RoadmapOrder{Field: repository.SortByID}
	case Top5Popularity:
		order = repository.RoadmapOrder{Field: repository.SortByBookmarks}
	case Top5Recommend:
		order = repository.RoadmapOrder{Field: repository.SortRandom}
	default:
		return nil, apperrors.ErrUnknownTop5Keyword
	}

	items, err := s.roadmaps.List(ctx, repository.RoadmapFilter{Order: order, Limit: topCount})
	if err != nil {
		return nil, fmt.Errorf("list top roadmaps: %w", err)
	}
	return items, nil
}

// Search pages through roadmaps whose title, description or type contains keyword.
func (s *RoadmapService) Search(ctx context.Context, keyword *string, page int) (domain.Page[domain.RankedRoadmap], error) {
	return s.page(ctx, repository.RoadmapFilter{Keyword: keyword}, page, SearchPageSize)
}

// SearchByTypeOrderBy pages through roadmaps of one type in the requested order.
// Unknown field or sort values fall back to newest first.
func (s *RoadmapService) SearchByTypeOrderBy(ctx context.Context, keyword, field, sort *string, page int) (domain.Page[domain.RankedRoadmap], error) {
	filter := repository.RoadmapFilter{
		Type:  blankToNil(keyword),
		Order: searchOrder(field, sort),
	}
	return s.page(ctx, filter, page, SearchPageSize)
}

// ReadByFollowings pages through roadmaps written by users the caller follows.
func (s *RoadmapService) ReadByFollowings(ctx context.Context, username string, page, size int) (domain.Page[domain.RankedRoadmap], error) {
	user, err := s.loginUser(ctx, username)
	if err != nil {
		return domain.Page[domain.RankedRoadmap]{}, err
	}
	return s.page(ctx, repository.RoadmapFilter{FollowerID: &user.ID}, page, size)
}

// ReadByUser pages through the roadmaps of a user profile.
func (s *RoadmapService) ReadByUser(ctx context.Context, userID int64, page int) (domain.Page[domain.RankedRoadmap], error) {
	return s.page(ctx, repository.RoadmapFilter{UserID: &userID}, page, SearchPageSize)
}

// ReadMyPage pages through the caller's own roadmaps.
func (s *RoadmapService) ReadMyPage(ctx context.Context, username string, page, size int) (domain.Page[domain.RankedRoadmap], error) {
	user, err := s.loginUser(ctx, username)
	if err != nil {
		return domain.Page[domain.RankedRoadmap]{}, err
	}
	return s.page(ctx, repository.RoadmapFilter{UserID: &user.ID}, page, size)
}

func (s *RoadmapService) page(ctx context.Context, filter repository.RoadmapFilter, number, size int) (domain.Page[domain.RankedRoadmap], error) {
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = SearchPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if number > math.MaxInt/size {
		return domain.Page[domain.RankedRoadmap]{}, apperrors.NewValidationError("page number out of range",
			map[string]any{"page": "too large"})
	}

	total, err := s.roadmaps.Count(ctx, filter)
	if err != nil {
		return domain.Page[domain.RankedRoadmap]{}, fmt.Errorf("count roadmaps: %w", err)
	}

	filter.Limit = size
	filter.Offset = number * size
	items, err := s.roadmaps.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.RankedRoadmap]{}, fmt.Errorf("list roadmaps: %w", err)
	}

	return domain.Page[domain.RankedRoadmap]{Items: items, Number: number, Size: size, Total: total}, nil
}

func (s *RoadmapService) writableRoadmap(ctx context.Context, id int64, username string) (*domain.Roadmap, error) {
	roadmap, err := s.findRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.loginUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !roadmap.IsWrittenBy(user) {
		return nil, apperrors.ErrNotMatchingWriter
	}
	return roadmap, nil
}

func (s *RoadmapService) findRoadmap(ctx context.Context, id int64) (*domain.Roadmap, error) {
	roadmap, err := s.roadmaps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("get roadmap: %w", err)
	}
	return roadmap, nil
}

func (s *RoadmapService) loginUser(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, apperrors.ErrInvalidIdentity
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidIdentity
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// yearBounds returns [Y-01-01 00:00:00, Y-12-31 23:59:59].
func yearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}

func searchOrder(field, sort *string) repository.RoadmapOrder {
	order := repository.RoadmapOrder{Field: repository.SortByCreatedAt}
	if field != nil {
		switch strings.ToLower(*field) {
		case "bookmark", "bookmarkcount", "popularity":
			order.Field = repository.SortByBookmarks
		case "title":
			order.Field = repository.SortByTitle
		}
	}
	if sort != nil && strings.EqualFold(*sort, "asc") {
		order.Ascending = true
	}
	return order
}

// normalize trims every field; title and description must remain non-empty.
func (in RoadmapInput) normalize() (RoadmapInput, error) {
	out := RoadmapInput{
		Type:        strings.TrimSpace(in.Type),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	details := map[string]any{}
	if out.Title == "" {
		details["title"] = "required"
	}
	if out.Description == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return RoadmapInput{}, apperrors.NewValidationError("invalid payload", details)
	}
	return out, nil
}

func blankToNil(val *string) *string {
	if val == nil || strings.TrimSpace(*val) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	return &trimmed
}

func plainRoadmaps(items []domain.RankedRoadmap) []domain.Roadmap {
	result := make([]domain.Roadmap, 0, len(items))
	for _, item := range items {
		result = append(result, item.Roadmap)
	}
	return result
}
