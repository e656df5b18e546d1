package service

import (
	"context"
	"errors"
	"io"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errTestBoom is the generic forced failure used by the error hooks.
var errTestBoom = errors.New("boom")

// In-memory repository stubs shared by the service tests. Each stub keeps
// its documents in a map and exposes optional error hooks so a test can
// force a failure at a chosen step.

type stubCredentialRepo struct {
	creds     map[primitive.ObjectID]*domain.Credential
	createErr error
	deleteErr error
	creates   int
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{creds: make(map[primitive.ObjectID]*domain.Credential)}
}

func (r *stubCredentialRepo) Create(_ context.Context, cred *domain.Credential) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	for _, existing := range r.creds {
		if existing.Email == cred.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *cred
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	r.creds[id] = &stored
	r.creates++
	return id, nil
}

func (r *stubCredentialRepo) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	for _, cred := range r.creds {
		if cred.Email == email {
			copy := *cred
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubCredentialRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.creds[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.creds, id)
	return nil
}

type stubUserRepo struct {
	users     map[primitive.ObjectID]*domain.User
	createErr error
	creates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	r.users[user.ID] = &stored
	r.creates++
	return user.ID, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) ListByStatus(_ context.Context, status domain.RegistrationStatus) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.RegistrationStatus == status {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsActive = active
	return nil
}

func (r *stubUserRepo) SetMembershipEnd(_ context.Context, id primitive.ObjectID, end time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.MembershipEnd = end
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, user := range r.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubPendingRepo struct {
	pending   map[string]*domain.PendingUser
	deleteErr error
	deletes   int
}

func newStubPendingRepo() *stubPendingRepo {
	return &stubPendingRepo{pending: make(map[string]*domain.PendingUser)}
}

func (r *stubPendingRepo) Create(_ context.Context, p *domain.PendingUser) error {
	if _, ok := r.pending[p.Email]; ok {
		return repository.ErrDuplicate
	}
	stored := *p
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.pending[p.Email] = &stored
	return nil
}

func (r *stubPendingRepo) GetByEmail(_ context.Context, email string) (*domain.PendingUser, error) {
	p, ok := r.pending[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *stubPendingRepo) List(_ context.Context) ([]domain.PendingUser, error) {
	var out []domain.PendingUser
	for _, p := range r.pending {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPendingRepo) Delete(_ context.Context, email string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.pending[email]; !ok {
		return repository.ErrNotFound
	}
	delete(r.pending, email)
	r.deletes++
	return nil
}

func (r *stubPendingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.pending)), nil
}

type stubSagaRepo struct {
	sagas map[primitive.ObjectID]*domain.RegistrationSaga
}

func newStubSagaRepo() *stubSagaRepo {
	return &stubSagaRepo{sagas: make(map[primitive.ObjectID]*domain.RegistrationSaga)}
}

func (r *stubSagaRepo) Create(_ context.Context, saga *domain.RegistrationSaga) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *saga
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	r.sagas[id] = &stored
	return id, nil
}

func (r *stubSagaRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RegistrationSaga, error) {
	saga, ok := r.sagas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *saga
	return &copy, nil
}

func (r *stubSagaRepo) ListByStatus(_ context.Context, status domain.SagaStatus) ([]domain.RegistrationSaga, error) {
	var out []domain.RegistrationSaga
	for _, saga := range r.sagas {
		if saga.Status == status {
			out = append(out, *saga)
		}
	}
	return out, nil
}

func (r *stubSagaRepo) Update(_ context.Context, saga *domain.RegistrationSaga) error {
	if _, ok := r.sagas[saga.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *saga
	stored.UpdatedAt = time.Now().UTC()
	r.sagas[saga.ID] = &stored
	return nil
}

type stubExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newStubExerciseRepo() *stubExerciseRepo {
	return &stubExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *stubExerciseRepo) Create(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *ex
	stored.ID = id
	r.exercises[id] = &stored
	return id, nil
}

func (r *stubExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ex
	return &copy, nil
}

func (r *stubExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.exercises {
		out = append(out, *ex)
	}
	return out, nil
}

func (r *stubExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	if _, ok := r.exercises[ex.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *ex
	r.exercises[ex.ID] = &stored
	return nil
}

func (r *stubExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *stubExerciseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.exercises)), nil
}

type stubRoutineRepo struct {
	routines map[primitive.ObjectID]*domain.GymRoutine
}

func newStubRoutineRepo() *stubRoutineRepo {
	return &stubRoutineRepo{routines: make(map[primitive.ObjectID]*domain.GymRoutine)}
}

func (r *stubRoutineRepo) Create(_ context.Context, routine *domain.GymRoutine) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *routine
	stored.ID = id
	r.routines[id] = &stored
	return id, nil
}

func (r *stubRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.GymRoutine, error) {
	routine, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *routine
	return &copy, nil
}

func (r *stubRoutineRepo) List(_ context.Context) ([]domain.GymRoutine, error) {
	var out []domain.GymRoutine
	for _, routine := range r.routines {
		out = append(out, *routine)
	}
	return out, nil
}

func (r *stubRoutineRepo) Update(_ context.Context, routine *domain.GymRoutine) error {
	if _, ok := r.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *routine
	r.routines[routine.ID] = &stored
	return nil
}

func (r *stubRoutineRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.routines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

func (r *stubRoutineRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.routines)), nil
}

// stubFileStorage records upload and delete calls without any network IO.
type stubFileStorage struct {
	uploads   []string
	deletes   []string
	uploadErr error
}

func (s *stubFileStorage) Upload(_ context.Context, objectKey, _ string, _ io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, objectKey)
	return "https://bucket.s3.test.amazonaws.com/" + objectKey, nil
}

func (s *stubFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey + "?signed", nil
}

func (s *stubFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deletes = append(s.deletes, objectKey)
	return nil
}
