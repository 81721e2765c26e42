package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-accounts/internal/company"
	"go-accounts/internal/domain"
	"go-accounts/internal/events"
	"go-accounts/internal/messaging/kafka"
	"go-accounts/internal/shared/contextutil"
	"go-accounts/internal/token"
	usererrors "go-accounts/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	// Register handles both the one-time bootstrap (first user ever creates
	// the company and becomes Admin) and admin-driven signups thereafter.
	Register(ctx context.Context, caller *token.Claims, req RegisterRequest) (AuthResult, error)

	// CreateUserByAdmin creates a sub-account under the caller's company
	// with an explicitly chosen Manager or Employee role.
	CreateUserByAdmin(ctx context.Context, caller *token.Claims, req CreateUserRequest) (UserResponse, error)

	Login(ctx context.Context, email, password string) (AuthResult, error)

	Profile(ctx context.Context, companyID, userID string) (UserResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	companies company.Repository
	outbox    kafka.OutboxRepository
	tokens    *token.Service
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	companies company.Repository,
	outbox kafka.OutboxRepository,
	tokens *token.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		companies: companies,
		outbox:    outbox,
		tokens:    tokens,
		logger:    l,
	}
}

func (s *service) Register(ctx context.Context, caller *token.Claims, req RegisterRequest) (AuthResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return AuthResult{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("register begin tx failed", zap.Error(tx.Error))
		return AuthResult{}, tx.Error
	}
	defer tx.Rollback()

	qusers := s.repo.WithTx(tx)
	qcompanies := s.companies.WithTx(tx)

	// The bootstrap gate is keyed on the global user count: the count and
	// the create run in one transaction so two racing first signups cannot
	// both take the bootstrap path.
	total, err := qusers.CountAll(ctx)
	if err != nil {
		return AuthResult{}, err
	}

	var comp *company.Company
	var role domain.Role

	if total == 0 {
		if req.CompanyName == "" || req.Country == "" || req.Currency == "" {
			return AuthResult{}, usererrors.ErrCompanyDetailsRequired
		}

		comp = &company.Company{
			Name:     req.CompanyName,
			Country:  req.Country,
			Currency: req.Currency,
		}
		if err := qcompanies.Create(ctx, comp); err != nil {
			return AuthResult{}, err
		}
		role = domain.RoleAdmin
	} else {
		if caller == nil || caller.Role != domain.RoleAdmin {
			return AuthResult{}, usererrors.ErrAdminOnly
		}

		companyID, err := uuid.Parse(caller.CompanyID)
		if err != nil {
			return AuthResult{}, usererrors.ErrInvalidCompanyID
		}
		comp, err = qcompanies.GetByID(ctx, companyID)
		if err != nil {
			return AuthResult{}, mapRepositoryError(err)
		}

		role = domain.RoleEmployee
		if req.Role != "" {
			parsed, ok := domain.ParseRole(req.Role)
			if !ok {
				return AuthResult{}, usererrors.ErrInvalidRole
			}
			role = parsed
		}
	}

	u, err := s.createUser(ctx, qusers, comp.ID, req.Name, req.Email, req.Password, role)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.enqueueRegisteredEvent(ctx, tx, u); err != nil {
		return AuthResult{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return AuthResult{}, mapRepositoryError(err)
	}

	tok, err := s.tokens.Issue(u.ID.String(), u.Role, u.CompanyID.String())
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("user registered",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
		zap.String("company_id", u.CompanyID.String()),
		zap.String("role", u.Role.String()),
	)

	u.Company = comp
	return AuthResult{Token: tok, User: mapToResponse(u)}, nil
}

func (s *service) CreateUserByAdmin(ctx context.Context, caller *token.Claims, req CreateUserRequest) (UserResponse, error) {
	if caller == nil || caller.Role != domain.RoleAdmin {
		return UserResponse{}, usererrors.ErrAdminOnly
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok || !role.Assignable() {
		return UserResponse{}, usererrors.ErrRoleNotAssignable
	}

	companyID, err := uuid.Parse(caller.CompanyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}

	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return UserResponse{}, err
	}

	comp, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return UserResponse{}, tx.Error
	}
	defer tx.Rollback()

	u, err := s.createUser(ctx, s.repo.WithTx(tx), comp.ID, req.Name, req.Email, req.Password, role)
	if err != nil {
		return UserResponse{}, err
	}

	if err := s.enqueueRegisteredEvent(ctx, tx, u); err != nil {
		return UserResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("user created by admin",
		zap.String("admin_id", caller.UserID),
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role.String()),
	)

	u.Company = comp
	return mapToResponse(u), nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, usererrors.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return AuthResult{}, usererrors.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID.String(), u.Role, u.CompanyID.String())
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	return AuthResult{Token: tok, User: mapToResponse(u)}, nil
}

func (s *service) Profile(ctx context.Context, companyID, userID string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, companyID, userID)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(u), nil
}

// ensureEmailFree is a best-effort existence check; the unique index on
// email catches the race it cannot.
func (s *service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return usererrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *service) createUser(
	ctx context.Context,
	repo Repository,
	companyID uuid.UUID,
	name, email, password string,
	role domain.Role,
) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	u := &User{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
	}

	if err := repo.Create(ctx, u); err != nil {
		return nil, mapRepositoryError(err)
	}
	return u, nil
}

func (s *service) enqueueRegisteredEvent(ctx context.Context, tx *gorm.DB, u *User) error {
	payload, err := json.Marshal(events.UserRegisteredEvent{
		EventType:  events.EventTypeUserRegistered,
		UserID:     u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		Email:      u.Email,
		Role:       u.Role.String(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "user",
		AggregateID:   u.ID.String(),
		EventType:     events.EventTypeUserRegistered,
		Topic:         events.UserLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.String(),
	}
	if u.Company != nil {
		resp.Company = &CompanyView{
			ID:       u.Company.ID.String(),
			Name:     u.Company.Name,
			Country:  u.Company.Country,
			Currency: u.Company.Currency,
		}
	}
	return resp
}
