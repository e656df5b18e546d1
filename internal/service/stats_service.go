package service

import (
	"context"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"
)

// AdminStats are the dashboard counters.
type AdminStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	Admins         int64 `json:"admins"`
	Members        int64 `json:"members"`
	PendingUsers   int64 `json:"pendingUsers"`
	TotalExercises int64 `json:"totalExercises"`
	TotalRoutines  int64 `json:"totalRoutines"`
}

// StatsService aggregates the dashboard's overview counters.
type StatsService interface {
	Collect(ctx context.Context) (*AdminStats, error)
}

type statsService struct {
	userRepo     repository.UserRepository
	pendingRepo  repository.PendingUserRepository
	exerciseRepo repository.ExerciseRepository
	routineRepo  repository.RoutineRepository
}

// NewStatsService creates a new instance of statsService.
func NewStatsService(userRepo repository.UserRepository, pendingRepo repository.PendingUserRepository, exerciseRepo repository.ExerciseRepository, routineRepo repository.RoutineRepository) StatsService {
	return &statsService{
		userRepo:     userRepo,
		pendingRepo:  pendingRepo,
		exerciseRepo: exerciseRepo,
		routineRepo:  routineRepo,
	}
}

// Collect issues the count queries sequentially; the dashboard is a
// low-traffic admin screen.
func (s *statsService) Collect(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Admins, err = s.userRepo.CountByRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if stats.Members, err = s.userRepo.CountByRole(ctx, domain.RoleMember); err != nil {
		return nil, err
	}
	if stats.PendingUsers, err = s.pendingRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalExercises, err = s.exerciseRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRoutines, err = s.routineRepo.Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
