package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hiddenpiece/roadmap-service/internal/domain"
	"github.com/hiddenpiece/roadmap-service/internal/repository"
)

type MockRoadmapRepository struct {
	mock.Mock
}

func (m *MockRoadmapRepository) Create(ctx context.Context, roadmap *domain.Roadmap) error {
	args := m.Called(ctx, roadmap)
	return args.Error(0)
}

func (m *MockRoadmapRepository) Update(ctx context.Context, roadmap *domain.Roadmap) error {
	args := m.Called(ctx, roadmap)
	return args.Error(0)
}

func (m *MockRoadmapRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoadmapRepository) GetByID(ctx context.Context, id int64) (*domain.Roadmap, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Roadmap), args.Error(1)
}

func (m *MockRoadmapRepository) List(ctx context.Context, filter repository.RoadmapFilter) ([]domain.RankedRoadmap, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankedRoadmap), args.Error(1)
}

func (m *MockRoadmapRepository) Count(ctx context.Context, filter repository.RoadmapFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
