package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lguportal/portal/internal/config"
	"lguportal/portal/internal/ids"
	"lguportal/portal/internal/input"
	"lguportal/portal/internal/models"
	"lguportal/portal/internal/repository"
	"lguportal/portal/internal/security"
)

const birthdayLayout = "2006-01-02"

// RegistrationService runs the two-step account creation. Step one parks the
// credentials in the pending store and hands the browser a continuation
// token; step two redeems the token and writes the user.
type RegistrationService struct {
	users     UserStore
	pending   PendingStore
	documents *DocumentService
	cfg       *config.AppConfig
	log       zerolog.Logger
	now       func() time.Time
	hash      func(password string) ([]byte, error)
}

func NewRegistrationService(
	users UserStore,
	pending PendingStore,
	documents *DocumentService,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		users:     users,
		pending:   pending,
		documents: documents,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		hash:      security.HashPassword,
	}
}

type Step1Input struct {
	Email    string
	Password string
	// PreviousToken is a continuation token left over from an earlier
	// attempt; its pending record is dropped.
	PreviousToken string
}

type Step1Result struct {
	Token   string
	Pending models.PendingRegistration
	View    View
}

func (s *RegistrationService) Step1(ctx context.Context, in Step1Input) (Step1Result, error) {
	fail := Step1Result{View: ViewRegister}

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return fail, invalid("Please fill in all fields")
	}
	if !input.IsEmail(email) {
		return fail, invalid("Invalid email format")
	}
	if !input.PasswordLongEnough(in.Password) {
		return fail, invalid(fmt.Sprintf("Password must be at least %d characters", input.MinPasswordLength))
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return fail, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return fail, ErrDuplicateEmail
	}

	passwordHash, err := s.hash(in.Password)
	if err != nil {
		return fail, fmt.Errorf("hash password: %w", err)
	}

	s.dropPending(ctx, in.PreviousToken)

	pending := models.PendingRegistration{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.pending.Save(ctx, pending); err != nil {
		return fail, fmt.Errorf("save pending registration: %w", err)
	}

	token, err := security.GenerateContinuationToken(s.cfg.Security.RegistrationSecret, pending.ID, s.cfg.Security.RegistrationTTL)
	if err != nil {
		return fail, err
	}

	return Step1Result{Token: token, Pending: pending, View: ViewAdditional}, nil
}

type Step2Input struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Birthday    string
	Address     string
	CivilStatus string
	Role        string
	Document    *DocumentUpload
}

type Step2Result struct {
	User models.User
	View View
	// UploadErr is set when the document was dropped but the account exists.
	UploadErr *UploadError
}

func (s *RegistrationService) Step2(ctx context.Context, token string, in Step2Input) (Step2Result, error) {
	pending, err := s.redeem(ctx, token)
	if err != nil {
		if errors.Is(err, ErrRegistrationExpired) {
			return Step2Result{View: ViewRegister}, err
		}
		return Step2Result{View: ViewAdditional}, err
	}

	fail := Step2Result{View: ViewAdditional}

	firstName := input.Sanitize(in.FirstName)
	middleName := input.Sanitize(in.MiddleName)
	lastName := input.Sanitize(in.LastName)
	address := input.Sanitize(in.Address)
	role := models.UserRole(input.Sanitize(in.Role))
	civil := models.CivilStatus(input.Sanitize(in.CivilStatus))
	birthdayText := input.Sanitize(in.Birthday)

	if firstName == "" || lastName == "" || role == "" {
		return fail, invalid("Please fill in all fields")
	}
	if !role.Valid() {
		return fail, invalid("Please select a valid role")
	}
	if civil != "" && !civil.Valid() {
		return fail, invalid("Please select a valid civil status")
	}

	user := models.User{
		ID:           ids.New(),
		Username:     input.LocalPart(pending.Email),
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		FullName:     input.NormalizeSpace(strings.Join([]string{firstName, middleName, lastName}, " ")),
		Role:         role,
		Department:   role.Department(),
		IsActive:     true,
	}

	if birthdayText != "" {
		birthday, err := time.Parse(birthdayLayout, birthdayText)
		if err != nil {
			return fail, invalid("Invalid birthday format")
		}
		user.Birthday = &birthday
	}
	if address != "" {
		user.Address = &address
	}
	if civil != "" {
		user.CivilStatus = &civil
	}

	exists, err := s.users.EmailExists(ctx, pending.Email)
	if err != nil {
		return fail, &PersistenceError{Op: "check email", Err: err}
	}
	if exists {
		s.dropPendingID(ctx, pending.ID)
		return Step2Result{View: ViewRegister}, ErrDuplicateEmail
	}

	var uploadErr *UploadError
	if in.Document != nil {
		relPath, err := s.documents.Store(ctx, *in.Document)
		if err != nil {
			uploadErr = &UploadError{Err: err}
			s.log.Warn().Err(err).Str("filename", in.Document.Filename).Msg("identity document not stored")
		} else {
			user.IDDocumentPath = &relPath
		}
	}

	now := s.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Create(ctx, user); err != nil {
		if user.IDDocumentPath != nil {
			s.documents.Discard(ctx, *user.IDDocumentPath)
		}
		if errors.Is(err, repository.ErrEmailTaken) {
			s.dropPendingID(ctx, pending.ID)
			return Step2Result{View: ViewRegister}, ErrDuplicateEmail
		}
		return fail, &PersistenceError{Op: "create user", Err: err}
	}

	s.dropPendingID(ctx, pending.ID)

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Bool("document", user.IDDocumentPath != nil).
		Msg("account created")

	return Step2Result{User: user, View: ViewLogin, UploadErr: uploadErr}, nil
}

// redeem checks the continuation token and loads the pending record it names.
func (s *RegistrationService) redeem(ctx context.Context, token string) (models.PendingRegistration, error) {
	if token == "" {
		return models.PendingRegistration{}, ErrRegistrationExpired
	}
	claims, err := security.ParseContinuationToken(token, s.cfg.Security.RegistrationSecret)
	if err != nil {
		return models.PendingRegistration{}, ErrRegistrationExpired
	}

	pending, err := s.pending.Get(ctx, claims.PendingID)
	if err != nil {
		if errors.Is(err, repository.ErrPendingNotFound) {
			return models.PendingRegistration{}, ErrRegistrationExpired
		}
		return models.PendingRegistration{}, fmt.Errorf("load pending registration: %w", err)
	}
	return pending, nil
}

func (s *RegistrationService) dropPending(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := security.ParseContinuationToken(token, s.cfg.Security.RegistrationSecret)
	if err != nil {
		return
	}
	s.dropPendingID(ctx, claims.PendingID)
}

func (s *RegistrationService) dropPendingID(ctx context.Context, id string) {
	if err := s.pending.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("pending_id", id).Msg("clear pending registration failed")
	}
}
