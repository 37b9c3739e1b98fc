package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hiddenpiece/roadmap-service/internal/api/dto"
	"github.com/hiddenpiece/roadmap-service/internal/auth"
	"github.com/hiddenpiece/roadmap-service/internal/service"
	apperrors "github.com/hiddenpiece/roadmap-service/pkg/util/errorutil"
)

const (
	followingPageSize = 3
	myPageSize        = 10
	deletedMessage    = "roadmap deleted"
)

// RoadmapHandler exposes roadmap endpoints.
type RoadmapHandler struct {
	service *service.RoadmapService
}

// NewRoadmapHandler constructs handler.
func NewRoadmapHandler(roadmapService *service.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{service: roadmapService}
}

// Create POST /roadmaps.
func (h *RoadmapHandler) Create(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	input, err := parseRoadmapRequest(c)
	if err != nil {
		return err
	}
	roadmap, err := h.service.Create(c.UserContext(), username, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRoadmapResponse(roadmap))
}

// ReadMine GET /roadmaps?year=&type=.
func (h *RoadmapHandler) ReadMine(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	var year *int
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return invalidParam("year")
		}
		year = &parsed
	}

	roadmaps, err := h.service.ReadByOwnerAndFilter(c.UserContext(), username, year, optionalQuery(c, "type"))
	if err != nil {
		return err
	}
	items := make([]dto.RoadmapResponse, 0, len(roadmaps))
	for i := range roadmaps {
		items = append(items, dto.NewRoadmapResponse(&roadmaps[i]))
	}
	return c.JSON(items)
}

// ReadOne GET /roadmaps/:id.
func (h *RoadmapHandler) ReadOne(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	roadmap, err := h.service.ReadOne(c.UserContext(), username, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoadmapResponse(roadmap))
}

// Update PUT /roadmaps/:id.
func (h *RoadmapHandler) Update(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	input, err := parseRoadmapRequest(c)
	if err != nil {
		return err
	}
	roadmap, err := h.service.Update(c.UserContext(), id, username, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRoadmapResponse(roadmap))
}

// Delete DELETE /roadmaps/:id.
func (h *RoadmapHandler) Delete(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.service.Delete(c.UserContext(), id, username); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: deletedMessage})
}

// Count GET /roadmaps/count. The presence of a date parameter, whatever its
// value, selects the count of roadmaps created today.
func (h *RoadmapHandler) Count(c *fiber.Ctx) error {
	var (
		count int64
		err   error
	)
	if c.Context().QueryArgs().Has("date") {
		count, err = h.service.CountCreatedToday(c.UserContext())
	} else {
		count, err = h.service.Count(c.UserContext())
	}
	if err != nil {
		return err
	}
	return c.JSON(count)
}

// Top5 GET /roadmaps/top5?keyword=.
func (h *RoadmapHandler) Top5(c *fiber.Ctx) error {
	roadmaps, err := h.service.ReadTop5(c.UserContext(), strings.TrimSpace(c.Query("keyword")))
	if err != nil {
		return err
	}
	items := make([]dto.Top5RoadmapResponse, 0, len(roadmaps))
	for _, r := range roadmaps {
		items = append(items, dto.NewTop5RoadmapResponse(r))
	}
	return c.JSON(items)
}

// TotalSearch GET /roadmaps/total-search?keyword=&page=.
func (h *RoadmapHandler) TotalSearch(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	result, err := h.service.Search(c.UserContext(), optionalQuery(c, "keyword"), page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPage(result, dto.NewSearchRoadmapResponse))
}

// Search GET /roadmaps/search?keyword=&field=&sort=&page=.
func (h *RoadmapHandler) Search(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	result, err := h.service.SearchByTypeOrderBy(c.UserContext(),
		optionalQuery(c, "keyword"), optionalQuery(c, "field"), optionalQuery(c, "sort"), page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPage(result, dto.NewSearchRoadmapResponse))
}

// Following GET /roadmaps/following?num=&limit=.
func (h *RoadmapHandler) Following(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	num, size, err := pageParams(c, followingPageSize)
	if err != nil {
		return err
	}
	result, err := h.service.ReadByFollowings(c.UserContext(), username, num, size)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPage(result, dto.NewFollowingRoadmapResponse))
}

// UserProfile GET /roadmaps/userProfile/:userId?page=.
func (h *RoadmapHandler) UserProfile(c *fiber.Ctx) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	result, err := h.service.ReadByUser(c.UserContext(), userID, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPage(result, dto.NewMyPageRoadmapResponse))
}

// MyPage GET /roadmaps/my-page?num=&limit=.
func (h *RoadmapHandler) MyPage(c *fiber.Ctx) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	num, size, err := pageParams(c, myPageSize)
	if err != nil {
		return err
	}
	result, err := h.service.ReadMyPage(c.UserContext(), username, num, size)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPage(result, dto.NewMyPageRoadmapResponse))
}

func parseRoadmapRequest(c *fiber.Ctx) (service.RoadmapInput, error) {
	var req dto.RoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return service.RoadmapInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	req.Normalize()
	if err := dto.Validate(req); err != nil {
		return service.RoadmapInput{}, err
	}
	return service.RoadmapInput{Type: req.Type, Title: req.Title, Description: req.Description}, nil
}

func currentUsername(c *fiber.Ctx) (string, error) {
	username, ok := auth.UsernameFromContext(c)
	if !ok {
		return "", apperrors.ErrInvalidIdentity
	}
	return username, nil
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, invalidParam(name)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name)
	}
	return val, nil
}

func pageParams(c *fiber.Ctx, defaultSize int) (int, int, error) {
	num, err := queryInt(c, "num", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err := queryInt(c, "limit", defaultSize)
	if err != nil {
		return 0, 0, err
	}
	return num, size, nil
}

// optionalQuery returns nil when the parameter is absent or blank.
func optionalQuery(c *fiber.Ctx, name string) *string {
	val := strings.TrimSpace(c.Query(name))
	if val == "" {
		return nil
	}
	return &val
}

func invalidParam(name string) error {
	return apperrors.NewValidationError("invalid "+name, map[string]any{name: "must be an integer"})
}

