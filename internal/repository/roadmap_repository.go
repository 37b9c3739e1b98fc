package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hiddenpiece/roadmap-service/internal/domain"
)

// SortField names a whitelisted ordering key for roadmap listings.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByID        SortField = "id"
	SortByBookmarks SortField = "bookmark_count"
	SortByTitle     SortField = "title"
	SortRandom      SortField = "random"
)

var sortExpressions = map[SortField]string{
	SortByCreatedAt: "r.created_at",
	SortByID:        "r.id",
	SortByBookmarks: "bookmark_count",
	SortByTitle:     "r.title",
}

// RoadmapOrder describes how a listing is sorted. The zero value sorts newest first.
type RoadmapOrder struct {
	Field     SortField
	Ascending bool
}

// RoadmapFilter captures the conditions a listing must satisfy. Nil fields do not filter.
type RoadmapFilter struct {
	UserID      *int64
	FollowerID  *int64
	Type        *string
	Keyword     *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Order       RoadmapOrder
	Limit       int
	Offset      int
}

// RoadmapRepository encapsulates roadmap persistence.
type RoadmapRepository interface {
	Create(ctx context.Context, roadmap *domain.Roadmap) error
	Update(ctx context.Context, roadmap *domain.Roadmap) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Roadmap, error)
	List(ctx context.Context, filter RoadmapFilter) ([]domain.RankedRoadmap, error)
	Count(ctx context.Context, filter RoadmapFilter) (int64, error)
}

type roadmapRepository struct {
	pool *pgxpool.Pool
}

// NewRoadmapRepository instantiates repository.
func NewRoadmapRepository(pool *pgxpool.Pool) RoadmapRepository {
	return &roadmapRepository{pool: pool}
}

const roadmapColumns = `r.id, r.user_id, u.username, r.type, r.title, r.description, r.created_at`

func (r *roadmapRepository) Create(ctx context.Context, roadmap *domain.Roadmap) error {
	const query = `
        INSERT INTO roadmaps (user_id, type, title, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		roadmap.UserID,
		roadmap.Type,
		roadmap.Title,
		roadmap.Description,
	).Scan(&roadmap.ID, &roadmap.CreatedAt)
}

func (r *roadmapRepository) Update(ctx context.Context, roadmap *domain.Roadmap) error {
	const query = `UPDATE roadmaps SET type=$1, title=$2, description=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		roadmap.Type,
		roadmap.Title,
		roadmap.Description,
		roadmap.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roadmapRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM roadmaps WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roadmapRepository) GetByID(ctx context.Context, id int64) (*domain.Roadmap, error) {
	query := `SELECT ` + roadmapColumns + `
        FROM roadmaps r JOIN users u ON u.id = r.user_id
        WHERE r.id=$1`

	var roadmap domain.Roadmap
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&roadmap.ID,
		&roadmap.UserID,
		&roadmap.Username,
		&roadmap.Type,
		&roadmap.Title,
		&roadmap.Description,
		&roadmap.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *roadmapRepository) List(ctx context.Context, filter RoadmapFilter) ([]domain.RankedRoadmap, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRankedRoadmaps(rows)
}

func (r *roadmapRepository) Count(ctx context.Context, filter RoadmapFilter) (int64, error) {
	where, args := buildWhere(filter)
	query := `SELECT COUNT(*) FROM roadmaps r WHERE ` + where

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildListQuery(filter RoadmapFilter) (string, []any) {
	where, args := buildWhere(filter)

	query := fmt.Sprintf(`SELECT %s,
            (SELECT COUNT(*) FROM bookmarks b WHERE b.roadmap_id = r.id) AS bookmark_count
        FROM roadmaps r JOIN users u ON u.id = r.user_id
        WHERE %s ORDER BY %s`, roadmapColumns, where, orderClause(filter.Order))

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}
	return query, args
}

// likeEscaper makes LIKE wildcards in a keyword match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildWhere(filter RoadmapFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("r.user_id=$%d", len(args)))
	}
	if filter.FollowerID != nil {
		args = append(args, *filter.FollowerID)
		clauses = append(clauses, fmt.Sprintf("r.user_id IN (SELECT f.following_id FROM follows f WHERE f.follower_id=$%d)", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("r.type=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("r.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("r.created_at <= $%d", len(args)))
	}
	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		search := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(*filter.Keyword))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(r.title) LIKE %[1]s ESCAPE '\' OR LOWER(r.description) LIKE %[1]s ESCAPE '\' OR LOWER(r.type) LIKE %[1]s ESCAPE '\')`,
			placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

// orderClause only ever emits whitelisted expressions; ties fall back to id so pages stay stable.
func orderClause(order RoadmapOrder) string {
	if order.Field == SortRandom {
		return "RANDOM()"
	}
	expr, ok := sortExpressions[order.Field]
	if !ok {
		expr = sortExpressions[SortByCreatedAt]
	}
	direction := "DESC"
	if order.Ascending {
		direction = "ASC"
	}
	if expr == "r.id" {
		return "r.id " + direction
	}
	return fmt.Sprintf("%s %s, r.id DESC", expr, direction)
}

func scanRankedRoadmaps(rows pgx.Rows) ([]domain.RankedRoadmap, error) {
	var result []domain.RankedRoadmap
	for rows.Next() {
		var item domain.RankedRoadmap
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Username,
			&item.Type,
			&item.Title,
			&item.Description,
			&item.CreatedAt,
			&item.BookmarkCount,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
