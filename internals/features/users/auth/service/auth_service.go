package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"studiofit_backend/internals/configs"
	"studiofit_backend/internals/features/notifications/mailer"
	"studiofit_backend/internals/features/users/auth/dto"
	authModel "studiofit_backend/internals/features/users/auth/model"
	authRepo "studiofit_backend/internals/features/users/auth/repository"
	helper "studiofit_backend/internals/helpers"
	helpersAuth "studiofit_backend/internals/helpers/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrStudioNotFound     = errors.New("studio not found")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrNotMember          = errors.New("no role in this studio")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
	ErrInvalidGoogleToken = errors.New("invalid google id token")
	ErrGoogleUnverified   = errors.New("google email is not verified")
)

// ReferralTracker records that a new sign-up came through a referral code.
type ReferralTracker interface {
	TrackSignup(ctx context.Context, code, email string, referredUserID uuid.UUID) error
}

type Meta struct {
	UserAgent string
	IP        string
}

type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             *authModel.UserModel
	StudioID         uuid.UUID
	Role             string
}

func (s *Session) Response() dto.SessionResponse {
	out := dto.SessionResponse{
		AccessToken:      s.AccessToken,
		RefreshToken:     s.RefreshToken,
		AccessExpiresAt:  s.AccessExpiresAt,
		RefreshExpiresAt: s.RefreshExpiresAt,
		User:             dto.ToUserResponse(s.User),
		Role:             s.Role,
	}
	if s.StudioID != uuid.Nil {
		id := s.StudioID
		out.StudioID = &id
	}
	return out
}

type Service struct {
	repo      authRepo.Repository
	jwt       configs.JWTConfig
	google    GoogleVerifier
	mail      mailer.Mailer
	referrals ReferralTracker
	siteURL   string
	log       *zap.Logger
	now       func() time.Time
}

type Deps struct {
	Repo      authRepo.Repository
	JWT       configs.JWTConfig
	Google    GoogleVerifier
	Mailer    mailer.Mailer
	Referrals ReferralTracker
	SiteURL   string
	Log       *zap.Logger
}

func New(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:      d.Repo,
		jwt:       d.JWT,
		google:    d.Google,
		mail:      d.Mailer,
		referrals: d.Referrals,
		siteURL:   d.SiteURL,
		log:       log.Named("auth"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

/* ==========================
   REGISTER / LOGIN
========================== */

func (s *Service) Register(ctx context.Context, req dto.RegisterRequest, meta Meta) (*Session, error) {
	email := helper.NormalizeEmail(req.Email)
	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !authRepo.IsNotFound(err) {
		return nil, err
	}

	var studioID *uuid.UUID
	studioName := ""
	if slug := strings.TrimSpace(req.StudioSlug); slug != "" {
		st, err := s.repo.FindStudioBySlug(ctx, slug)
		if authRepo.IsNotFound(err) {
			return nil, ErrStudioNotFound
		}
		if err != nil {
			return nil, err
		}
		studioID, studioName = &st.ID, st.Name
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &authModel.UserModel{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user, studioID); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if code := strings.TrimSpace(req.ReferralCode); code != "" && s.referrals != nil {
		if err := s.referrals.TrackSignup(ctx, code, email, user.ID); err != nil {
			s.log.Warn("referral on sign-up not recorded", zap.String("code", code), zap.Error(err))
		}
	}

	if s.mail != nil {
		if _, err := s.mail.Send(ctx, mailer.Welcome(email, user.FullName, studioName, s.siteURL)); err != nil {
			s.log.Warn("welcome email failed", zap.String("email", email), zap.Error(err))
		}
	}

	var active uuid.UUID
	if studioID != nil {
		active = *studioID
	}
	return s.issue(ctx, user, active, meta)
}

func (s *Service) Login(ctx context.Context, req dto.LoginRequest, meta Meta) (*Session, error) {
	user, err := s.repo.FindUserByEmail(ctx, req.Email)
	if authRepo.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	studioID, err := s.pickStudio(ctx, user.ID, req.StudioSlug)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user, studioID, meta)
}

func (s *Service) LoginGoogle(ctx context.Context, req dto.GoogleLoginRequest, meta Meta) (*Session, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	ident, err := s.google.Verify(req.IDToken)
	if err != nil {
		return nil, err
	}
	// an unverified address must never be matched against local accounts
	if !ident.EmailVerified {
		return nil, ErrGoogleUnverified
	}

	user, err := s.repo.FindUserByGoogleID(ctx, ident.Subject)
	if authRepo.IsNotFound(err) {
		user, err = s.repo.FindUserByEmail(ctx, helper.NormalizeEmail(ident.Email))
		switch {
		case err == nil:
			if err := s.repo.LinkGoogleID(ctx, user.ID, ident.Subject); err != nil {
				return nil, err
			}
		case authRepo.IsNotFound(err):
			gid := ident.Subject
			user = &authModel.UserModel{
				Email:    helper.NormalizeEmail(ident.Email),
				FullName: ident.Name,
				GoogleID: &gid,
				IsActive: true,
			}
			if err := s.repo.CreateUser(ctx, user, nil); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if slug := strings.TrimSpace(req.StudioSlug); slug != "" {
		st, err := s.repo.FindStudioBySlug(ctx, slug)
		if authRepo.IsNotFound(err) {
			return nil, ErrStudioNotFound
		}
		if err != nil {
			return nil, err
		}
		if err := s.repo.EnsureClientMembership(ctx, user, st.ID); err != nil {
			return nil, err
		}
	}

	studioID, err := s.pickStudio(ctx, user.ID, req.StudioSlug)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user, studioID, meta)
}

// pickStudio returns the studio named by slug when the user belongs to it,
// else the user's highest-role studio, else uuid.Nil.
func (s *Service) pickStudio(ctx context.Context, userID uuid.UUID, slug string) (uuid.UUID, error) {
	ms, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	slug = strings.TrimSpace(slug)
	if slug != "" {
		for _, m := range ms {
			if m.StudioSlug == slug {
				return m.StudioID, nil
			}
		}
	}
	if len(ms) > 0 {
		return ms[0].StudioID, nil
	}
	return uuid.Nil, nil
}

/* ==========================
   REFRESH / LOGOUT / SWITCH
========================== */

func (s *Service) Refresh(ctx context.Context, raw string, meta Meta) (*Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidRefresh
	}
	claims, err := helpersAuth.ParseRefresh(s.jwt.RefreshSecret, raw)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	rt, err := s.repo.FindActiveRefreshToken(ctx, helpersAuth.RefreshHash(raw, s.jwt.RefreshSecret))
	if authRepo.IsNotFound(err) {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	if rt.UserID != userID {
		return nil, ErrInvalidRefresh
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if authRepo.IsNotFound(err) {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// rotate; a concurrent refresh with the same token loses here
	if err := s.repo.RevokeRefreshToken(ctx, rt.ID); err != nil {
		if authRepo.IsNotFound(err) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	studioID := uuid.Nil
	if id, err := uuid.Parse(claims.StudioID); err == nil {
		role, err := s.repo.ResolveRole(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if role != "" {
			studioID = id
		}
	}
	if studioID == uuid.Nil {
		if studioID, err = s.pickStudio(ctx, userID, ""); err != nil {
			return nil, err
		}
	}
	return s.issue(ctx, user, studioID, meta)
}

// Logout blacklists the access token until it would have expired and revokes every refresh token of the user.
func (s *Service) Logout(ctx context.Context, rawAccess string) error {
	claims, err := helpersAuth.ParseAccess(s.jwt.Secret, rawAccess)
	if err != nil {
		return nil
	}
	exp := s.now().Add(s.jwt.AccessTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if err := s.repo.BlacklistToken(ctx, helpersAuth.BlacklistKey(rawAccess, s.jwt.Secret), exp); err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil
	}
	return s.repo.RevokeUserRefreshTokens(ctx, userID)
}

func (s *Service) SwitchStudio(ctx context.Context, userID, studioID uuid.UUID, meta Meta) (*Session, error) {
	role, err := s.repo.ResolveRole(ctx, userID, studioID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, ErrNotMember
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user, studioID, meta)
}

func (s *Service) Me(ctx context.Context, userID, studioID uuid.UUID, role string) (*dto.MeResponse, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ms, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.MeResponse{
		User:        dto.ToUserResponse(user),
		Role:        role,
		Memberships: make([]dto.MembershipResponse, 0, len(ms)),
	}
	if studioID != uuid.Nil {
		out.StudioID = &studioID
	}
	for _, m := range ms {
		out.Memberships = append(out.Memberships, dto.MembershipResponse{
			StudioID:   m.StudioID,
			StudioSlug: m.StudioSlug,
			StudioName: m.StudioName,
			Role:       m.Role,
		})
	}
	return out, nil
}

// CleanupExpired drops expired blacklist rows and dead refresh tokens.
func (s *Service) CleanupExpired(ctx context.Context) error {
	bl, rt, err := s.repo.CleanupExpired(ctx, s.now())
	if err != nil {
		return err
	}
	s.log.Info("token cleanup", zap.Int64("blacklist_deleted", bl), zap.Int64("refresh_deleted", rt))
	return nil
}

/* ==========================
   TOKEN ISSUING
========================== */

func (s *Service) issue(ctx context.Context, user *authModel.UserModel, studioID uuid.UUID, meta Meta) (*Session, error) {
	now := s.now()
	access, accessExp, err := helpersAuth.SignAccess(s.jwt.Secret, user.ID, user.Email, studioID, now, s.jwt.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := helpersAuth.SignRefresh(s.jwt.RefreshSecret, user.ID, studioID, now, s.jwt.RefreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, &authModel.RefreshToken{
		UserID:    user.ID,
		TokenHash: helpersAuth.RefreshHash(refresh, s.jwt.RefreshSecret),
		ExpiresAt: refreshExp,
		UserAgent: helper.StrPtr(meta.UserAgent),
		IP:        helper.StrPtr(meta.IP),
	}); err != nil {
		return nil, err
	}

	role := ""
	if studioID != uuid.Nil {
		if role, err = s.repo.ResolveRole(ctx, user.ID, studioID); err != nil {
			return nil, err
		}
	}
	return &Session{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		User:             user,
		StudioID:         studioID,
		Role:             role,
	}, nil
}
