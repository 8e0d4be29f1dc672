package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiofit_backend/internals/configs"
	"studiofit_backend/internals/constants"
	"studiofit_backend/internals/features/notifications/mailer"
	studioModel "studiofit_backend/internals/features/studio/studios/model"
	"studiofit_backend/internals/features/users/auth/dto"
	authModel "studiofit_backend/internals/features/users/auth/model"
	authRepo "studiofit_backend/internals/features/users/auth/repository"
	helpersAuth "studiofit_backend/internals/helpers/auth"
)

type fakeRepo struct {
	users     map[uuid.UUID]*authModel.UserModel
	roles     []authModel.UserRoleModel
	studios   []studioModel.StudioModel
	refresh   []*authModel.RefreshToken
	blacklist map[string]time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[uuid.UUID]*authModel.UserModel{}, blacklist: map[string]time.Time{}}
}

func (f *fakeRepo) FindUserByEmail(_ context.Context, email string) (*authModel.UserModel, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindUserByID(_ context.Context, id uuid.UUID) (*authModel.UserModel, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindUserByGoogleID(_ context.Context, gid string) (*authModel.UserModel, error) {
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == gid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateUser(_ context.Context, u *authModel.UserModel, studioID *uuid.UUID) error {
	u.ID = uuid.New()
	f.users[u.ID] = u
	if studioID != nil {
		f.roles = append(f.roles, authModel.UserRoleModel{UserID: u.ID, StudioID: *studioID, Role: constants.RoleClient})
	}
	return nil
}

func (f *fakeRepo) LinkGoogleID(_ context.Context, id uuid.UUID, gid string) error {
	f.users[id].GoogleID = &gid
	return nil
}

func (f *fakeRepo) EnsureClientMembership(_ context.Context, u *authModel.UserModel, studioID uuid.UUID) error {
	for _, r := range f.roles {
		if r.UserID == u.ID && r.StudioID == studioID {
			return nil
		}
	}
	f.roles = append(f.roles, authModel.UserRoleModel{UserID: u.ID, StudioID: studioID, Role: constants.RoleClient})
	return nil
}

func (f *fakeRepo) FindStudioBySlug(_ context.Context, slug string) (*studioModel.StudioModel, error) {
	for i := range f.studios {
		if f.studios[i].Slug == slug {
			return &f.studios[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListMemberships(_ context.Context, userID uuid.UUID) ([]authRepo.Membership, error) {
	var out []authRepo.Membership
	for _, r := range f.roles {
		if r.UserID != userID {
			continue
		}
		for _, s := range f.studios {
			if s.ID == r.StudioID {
				out = append(out, authRepo.Membership{StudioID: s.ID, StudioSlug: s.Slug, StudioName: s.Name, Role: r.Role})
			}
		}
	}
	return authRepo.CollapseMemberships(out), nil
}

func (f *fakeRepo) SaveRefreshToken(_ context.Context, rt *authModel.RefreshToken) error {
	rt.ID = uuid.New()
	f.refresh = append(f.refresh, rt)
	return nil
}

func (f *fakeRepo) FindActiveRefreshToken(_ context.Context, hash []byte) (*authModel.RefreshToken, error) {
	for _, rt := range f.refresh {
		if bytes.Equal(rt.TokenHash, hash) && rt.RevokedAt == nil {
			return rt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, id uuid.UUID) error {
	for _, rt := range f.refresh {
		if rt.ID == id && rt.RevokedAt == nil {
			now := time.Now()
			rt.RevokedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) RevokeUserRefreshTokens(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, rt := range f.refresh {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRepo) BlacklistToken(_ context.Context, key string, exp time.Time) error {
	f.blacklist[key] = exp
	return nil
}

func (f *fakeRepo) CleanupExpired(context.Context, time.Time) (int64, int64, error) { return 0, 0, nil }

func (f *fakeRepo) IsBlacklisted(_ context.Context, key string) (bool, error) {
	_, ok := f.blacklist[key]
	return ok, nil
}

func (f *fakeRepo) IsUserActive(_ context.Context, id uuid.UUID) (bool, error) {
	u, ok := f.users[id]
	return ok && u.IsActive, nil
}

func (f *fakeRepo) ResolveRole(_ context.Context, userID, studioID uuid.UUID) (string, error) {
	best := ""
	for _, r := range f.roles {
		if r.UserID == userID && r.StudioID == studioID && constants.RolePriority(r.Role) > constants.RolePriority(best) {
			best = r.Role
		}
	}
	return best, nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "id", nil
}

type fakeReferrals struct {
	codes []string
}

func (r *fakeReferrals) TrackSignup(_ context.Context, code, _ string, _ uuid.UUID) error {
	r.codes = append(r.codes, code)
	return errors.New("Referral code not found")
}

type fakeGoogle struct{ ident GoogleIdentity }

func (g *fakeGoogle) Verify(string) (*GoogleIdentity, error) {
	id := g.ident
	return &id, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeRepo()
	repo.studios = []studioModel.StudioModel{{ID: uuid.New(), Name: "Blue Lane", Slug: "blue-lane", IsActive: true}}
	m := &fakeMailer{}
	svc := New(Deps{
		Repo: repo,
		JWT: configs.JWTConfig{
			Secret: "access-secret", RefreshSecret: "refresh-secret",
			AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour,
		},
		Mailer:    m,
		Referrals: &fakeReferrals{},
		SiteURL:   "http://localhost:3000",
	})
	return svc, repo, m
}

func TestRegisterWithStudioCreatesClientSession(t *testing.T) {
	svc, repo, m := newTestService(t)

	sess, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "Ana@Example.com", Password: "password123", FullName: "Ana Lima", StudioSlug: "blue-lane",
	}, Meta{IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, repo.studios[0].ID, sess.StudioID)
	assert.Equal(t, constants.RoleClient, sess.Role)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Subject, "Blue Lane")

	claims, err := helpersAuth.ParseAccess("access-secret", sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, repo.studios[0].ID, claims.Studio())
}

func TestRegisterIgnoresMailAndReferralFailures(t *testing.T) {
	svc, _, m := newTestService(t)
	m.err = errors.New("provider down")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "bo@example.com", Password: "password123", FullName: "Bo", ReferralCode: "NOPE",
	}, Meta{})
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	req := dto.RegisterRequest{Email: "dup@example.com", Password: "password123", FullName: "Dup"}
	_, err := svc.Register(context.Background(), req, Meta{})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req, Meta{})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "c@example.com", Password: "password123", FullName: "C"}, Meta{})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "c@example.com", Password: "wrong-pass"}, Meta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "x"}, Meta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	first, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "r@example.com", Password: "password123", FullName: "R", StudioSlug: "blue-lane"}, Meta{})
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken, Meta{})
	require.NoError(t, err)
	assert.Equal(t, first.StudioID, second.StudioID)

	_, err = svc.Refresh(context.Background(), first.RefreshToken, Meta{})
	assert.ErrorIs(t, err, ErrInvalidRefresh, "a rotated token cannot be replayed")
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	svc, repo, _ := newTestService(t)
	sess, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "l@example.com", Password: "password123", FullName: "L"}, Meta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess.AccessToken))

	black, err := repo.IsBlacklisted(context.Background(), helpersAuth.BlacklistKey(sess.AccessToken, "access-secret"))
	require.NoError(t, err)
	assert.True(t, black)

	_, err = svc.Refresh(context.Background(), sess.RefreshToken, Meta{})
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestSwitchStudioRequiresMembership(t *testing.T) {
	svc, repo, _ := newTestService(t)
	sess, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "s@example.com", Password: "password123", FullName: "S"}, Meta{})
	require.NoError(t, err)

	_, err = svc.SwitchStudio(context.Background(), sess.User.ID, repo.studios[0].ID, Meta{})
	assert.ErrorIs(t, err, ErrNotMember)

	repo.roles = append(repo.roles,
		authModel.UserRoleModel{UserID: sess.User.ID, StudioID: repo.studios[0].ID, Role: constants.RoleClient},
		authModel.UserRoleModel{UserID: sess.User.ID, StudioID: repo.studios[0].ID, Role: constants.RoleTrainer},
	)
	switched, err := svc.SwitchStudio(context.Background(), sess.User.ID, repo.studios[0].ID, Meta{})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleTrainer, switched.Role, "duplicate role rows collapse to the highest")
}

func TestLoginGoogleLinksVerifiedEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "dee@example.com", Password: "password123", FullName: "Dee"}, Meta{})
	require.NoError(t, err)

	svc.google = &fakeGoogle{ident: GoogleIdentity{Subject: "g-1", Email: "Dee@Example.com", EmailVerified: true, Name: "Dee"}}
	sess, err := svc.LoginGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "tok"}, Meta{})
	require.NoError(t, err)
	require.NotNil(t, repo.users[sess.User.ID].GoogleID)
	assert.Equal(t, "g-1", *repo.users[sess.User.ID].GoogleID)
}

func TestLoginGoogleRejectsUnverifiedEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "eve@example.com", Password: "password123", FullName: "Eve"}, Meta{})
	require.NoError(t, err)

	svc.google = &fakeGoogle{ident: GoogleIdentity{Subject: "g-evil", Email: "eve@example.com", EmailVerified: false}}
	_, err = svc.LoginGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "tok"}, Meta{})
	assert.ErrorIs(t, err, ErrGoogleUnverified)

	for _, u := range repo.users {
		assert.Nil(t, u.GoogleID, "no account may be linked")
	}
	assert.Len(t, repo.users, 1)
}
