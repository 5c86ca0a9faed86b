package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDomains = []string{"nu.edu.pk", "isb.nu.edu.pk"}

func newTestAuthService(users *fakeUserRepo, st *recordingStorage) *AuthService {
	return NewAuthService(users, newFakeTokenRepo(), st, "test-secret", 5*time.Hour, testDomains)
}

func TestRegister(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	user, err := svc.Register("Ali Khan", "Ali@NU.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	assert.Equal(t, "Ali Khan", user.Name)
	assert.Equal(t, "ali@nu.edu.pk", user.Email, "email is normalized to lowercase")
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		phone    string
	}{
		{"missing name", "", "ali@nu.edu.pk", "correct horse battery", "+923001234567"},
		{"non-university email", "Ali", "ali@gmail.com", "correct horse battery", "+923001234567"},
		{"lookalike domain", "Ali", "ali@evil-nu.edu.pk.example.com", "correct horse battery", "+923001234567"},
		{"malformed email", "Ali", "not-an-email", "correct horse battery", "+923001234567"},
		{"short password", "Ali", "ali@nu.edu.pk", "short", "+923001234567"},
		{"phone without plus", "Ali", "ali@nu.edu.pk", "correct horse battery", "03001234567"},
		{"phone with dashes", "Ali", "ali@nu.edu.pk", "correct horse battery", "+92-300-1234567"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.userName, tc.email, tc.password, tc.phone)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	_, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	_, err = svc.Register("Other Ali", "ali@nu.edu.pk", "another passphrase", "+923009999999")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	registered, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	user, err := svc.Login("ALI@nu.edu.pk", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login("ali@nu.edu.pk", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown account and wrong password are indistinguishable
	_, err = svc.Login("nobody@nu.edu.pk", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTRoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	user, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	token, err := svc.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := svc.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])

	// a token signed with a different secret is rejected
	other := NewAuthService(users, newFakeTokenRepo(), &recordingStorage{}, "other-secret", 5*time.Hour, testDomains)
	_, err = other.VerifyJWT(token)
	assert.Error(t, err)

	_, err = svc.VerifyJWT("not.a.token")
	assert.Error(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	user, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	token, err := svc.ForgotPassword("ALI@nu.edu.pk")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(token, "a brand new passphrase"))

	// old password no longer works, new one does
	_, err = svc.Login("ali@nu.edu.pk", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.Login("ali@nu.edu.pk", "a brand new passphrase")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// tokens are single use
	err = svc.ResetPassword(token, "yet another passphrase")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &recordingStorage{})

	token, err := svc.ForgotPassword("nobody@nu.edu.pk")
	require.NoError(t, err, "unknown addresses must not be distinguishable by error")
	assert.Empty(t, token)
}

func TestForgotPasswordReplacesOutstandingToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	_, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	first, err := svc.ForgotPassword("ali@nu.edu.pk")
	require.NoError(t, err)
	second, err := svc.ForgotPassword("ali@nu.edu.pk")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, svc.ResetPassword(first, "a brand new passphrase"), ErrInvalidResetToken)
	assert.NoError(t, svc.ResetPassword(second, "a brand new passphrase"))
}

func TestResetPasswordRejectsBadInput(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	_, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword("never-issued-token", "a brand new passphrase"), ErrInvalidResetToken)

	token, err := svc.ForgotPassword("ali@nu.edu.pk")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ResetPassword(token, "short"), ErrValidation)

	// the weak-password attempt must not have burned the token
	assert.NoError(t, svc.ResetPassword(token, "a brand new passphrase"))
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	user, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "wrong current", "a brand new passphrase")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.ChangePassword(user.ID, "correct horse battery", "short")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(user.ID, "correct horse battery", "a brand new passphrase"))

	_, err = svc.Login("ali@nu.edu.pk", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("ali@nu.edu.pk", "a brand new passphrase")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	user, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	phone := "+923007654321"
	whatsapp := "+923001112223"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Phone: &phone, Whatsapp: &whatsapp}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, phone, updated.Phone)
	require.NotNil(t, updated.Whatsapp)
	assert.Equal(t, whatsapp, *updated.Whatsapp)

	bad := "0300-1234567"
	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Phone: &bad}, nil, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfileNoChanges(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &recordingStorage{})

	user, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{}, nil, nil)
	assert.ErrorIs(t, err, ErrNoProfileChanges)
}

func TestUpdateProfilePictureReplacement(t *testing.T) {
	users := newFakeUserRepo()
	st := &recordingStorage{}
	svc := newTestAuthService(users, st)

	user, err := svc.Register("Ali", "ali@nu.edu.pk", "correct horse battery", "+923001234567")
	require.NoError(t, err)

	file, header := newTestImage(t)
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{}, file, header)
	require.NoError(t, err)
	require.True(t, updated.HasProfilePicture())
	first := *updated.ProfilePictureHandle
	assert.True(t, strings.HasPrefix(first, "user-profiles/"+user.ID+"/"))

	file, header = newTestImage(t)
	updated, err = svc.UpdateProfile(user.ID, ProfileUpdate{}, file, header)
	require.NoError(t, err)

	// new picture uploaded before the previous handle is deleted
	require.Len(t, st.ops, 3)
	assert.Equal(t, "save:"+first, st.ops[0])
	assert.True(t, strings.HasPrefix(st.ops[1], "save:user-profiles/"))
	assert.Equal(t, "delete:"+first, st.ops[2])
	assert.NotEqual(t, first, *updated.ProfilePictureHandle)
}
