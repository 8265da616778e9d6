package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/envelope"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
)

// UserService owns the users table: schema, seeding and listing.
type UserService struct {
	repo   *userrepo.UserRepo
	logger *zap.SugaredLogger
}

func NewUserService(r *userrepo.UserRepo, logger *zap.SugaredLogger) *UserService {
	if r == nil {
		r = userrepo.NewUserRepo()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserService{repo: r, logger: logger}
}

// EnsureSchema creates the users table and seeds the demo rows when it is empty.
//
// Count and insert are two separate statements with no lock between them:
// concurrent first calls can both see zero and both seed.
func (s *UserService) EnsureSchema(ctx context.Context, conn *database.Conn) error {
	if err := s.repo.EnsureTable(ctx, conn); err != nil {
		return err
	}
	n, err := s.repo.Count(ctx, conn)
	if err != nil {
		return err
	}
	if n != 0 {
		return nil
	}
	inserted, err := s.repo.SeedDefaults(ctx, conn)
	if err != nil {
		return err
	}
	s.logger.Infow("seeded users table", "rows", inserted)
	return nil
}

// ListUsers returns every user wrapped in a response envelope. Store errors
// become status=error with the store's message.
func (s *UserService) ListUsers(ctx context.Context, conn *database.Conn) envelope.ResponseEnvelope[entity.User] {
	users, err := s.repo.List(ctx, conn)
	if err != nil {
		s.logger.Warnw("list users failed", "err", err, "kind", database.KindOf(err))
		return envelope.Failure[entity.User](err.Error())
	}
	return envelope.Success(users)
}

// CreateUser inserts a user with store-assigned id and created_at.
func (s *UserService) CreateUser(ctx context.Context, conn *database.Conn, name, email string) (*entity.User, error) {
	u := &entity.User{Name: name, Email: email}
	if _, err := s.repo.Create(ctx, conn, u); err != nil {
		return nil, err
	}
	return u, nil
}
