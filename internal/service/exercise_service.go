package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"
	"ironhub/gym-admin/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxMediaSize is the upload ceiling, enforced before any blob-store call.
const MaxMediaSize = 50 * 1024 * 1024 // 50 MiB

// allowedMediaTypes is the accepted content-type set for exercise media.
var allowedMediaTypes = map[string]domain.MediaType{
	"image/jpeg": domain.MediaImage,
	"image/jpg":  domain.MediaImage,
	"image/png":  domain.MediaImage,
	"image/gif":  domain.MediaImage,
	"image/webp": domain.MediaImage,
	"video/mp4":  domain.MediaVideo,
	"video/avi":  domain.MediaVideo,
	"video/mov":  domain.MediaVideo,
	"video/wmv":  domain.MediaVideo,
	"video/flv":  domain.MediaVideo,
}

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseInvalid  = errors.New("exercise validation failed")
	ErrMediaType        = errors.New("unsupported media type: only common image and video formats are accepted")
	ErrMediaTooLarge    = errors.New("media file exceeds the 50MB limit")
	ErrNoMedia          = errors.New("exercise has no media attached")
)

// ExerciseInput carries the catalog form fields.
type ExerciseInput struct {
	Name                  string
	PrimaryMuscleGroups   []string
	SecondaryMuscleGroups []string
	Equipment             string
	Difficulty            domain.Difficulty
	Description           string
	Instructions          string
	Tips                  string
	IsActive              bool
}

// MediaUpload describes a file offered for upload. Size and content type
// are checked before any bytes are sent to the blob store.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ExerciseService manages the exercise catalog and its media objects.
type ExerciseService interface {
	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
	AttachMedia(ctx context.Context, id primitive.ObjectID, upload MediaUpload) (*domain.Exercise, error)
	MediaDownloadURL(ctx context.Context, id primitive.ObjectID) (string, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	files        storage.FileStorage
	logger       *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, files storage.FileStorage, logger *zap.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		files:        files,
		logger:       logger,
	}
}

func (s *exerciseService) validateInput(input *ExerciseInput) error {
	input.PrimaryMuscleGroups = trimBlank(input.PrimaryMuscleGroups)
	input.SecondaryMuscleGroups = trimBlank(input.SecondaryMuscleGroups)

	switch {
	case input.Name == "",
		input.Equipment == "",
		input.Description == "",
		input.Instructions == "",
		len(input.PrimaryMuscleGroups) == 0:
		return ErrExerciseInvalid
	}
	switch input.Difficulty {
	case domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced:
	default:
		return ErrExerciseInvalid
	}
	return nil
}

// trimBlank drops empty entries from a muscle-group list, mirroring the
// form widget's free-grow rows.
func trimBlank(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// CreateExercise adds a new catalog entry.
func (s *exerciseService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:                  input.Name,
		PrimaryMuscleGroups:   input.PrimaryMuscleGroups,
		SecondaryMuscleGroups: input.SecondaryMuscleGroups,
		Equipment:             input.Equipment,
		Difficulty:            input.Difficulty,
		Description:           input.Description,
		Instructions:          input.Instructions,
		Tips:                  input.Tips,
		IsActive:              input.IsActive,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

// GetExercise retrieves one catalog entry.
func (s *exerciseService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises retrieves the whole catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// UpdateExercise replaces a catalog entry's form fields. Media attachment
// is a separate operation.
func (s *exerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	exercise.Name = input.Name
	exercise.PrimaryMuscleGroups = input.PrimaryMuscleGroups
	exercise.SecondaryMuscleGroups = input.SecondaryMuscleGroups
	exercise.Equipment = input.Equipment
	exercise.Difficulty = input.Difficulty
	exercise.Description = input.Description
	exercise.Instructions = input.Instructions
	exercise.Tips = input.Tips
	exercise.IsActive = input.IsActive

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise removes a catalog entry.
func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

// AttachMedia validates, uploads and links a media object to an exercise.
// A previously attached object is deleted best-effort after the new one
// is linked.
func (s *exerciseService) AttachMedia(ctx context.Context, id primitive.ObjectID, upload MediaUpload) (*domain.Exercise, error) {
	mediaType, ok := allowedMediaTypes[upload.ContentType]
	if !ok {
		return nil, ErrMediaType
	}
	if upload.Size > MaxMediaSize {
		return nil, ErrMediaTooLarge
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	objectKey := MediaObjectKey(upload.Filename, time.Now())
	url, err := s.files.Upload(ctx, objectKey, upload.ContentType, upload.Body)
	if err != nil {
		return nil, err
	}

	previousURL := exercise.MediaURL
	exercise.MediaType = mediaType
	exercise.MediaURL = url

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}

	if previousURL != "" {
		if key, ok := mediaKeyFromURL(previousURL); ok {
			if err := s.files.DeleteObject(ctx, key); err != nil {
				s.logger.Warn("failed to delete replaced media object",
					zap.String("key", key), zap.Error(err))
			}
		}
	}

	return exercise, nil
}

// MediaDownloadURL issues a time-bound presigned GET link for an exercise's
// attached media object.
func (s *exerciseService) MediaDownloadURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}
	if exercise.MediaURL == "" {
		return "", ErrNoMedia
	}

	key, ok := mediaKeyFromURL(exercise.MediaURL)
	if !ok {
		return "", ErrNoMedia
	}
	return s.files.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
}

// MediaObjectKey builds the blob-store key for an uploaded file:
// exercises/<unix-timestamp>_<original-filename>.
func MediaObjectKey(filename string, now time.Time) string {
	return fmt.Sprintf("exercises/%d_%s", now.Unix(), filename)
}

// mediaKeyFromURL recovers the object key from a stored media URL.
func mediaKeyFromURL(url string) (string, bool) {
	idx := strings.Index(url, "exercises/")
	if idx < 0 {
		return "", false
	}
	return url[idx:], true
}
