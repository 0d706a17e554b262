package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/maoni/apps/api/echo"
	"github.com/trezcool/maoni/core/user"
)

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	existing := createUser(t, "Awe Some", "awe@test.cd", "secretpwd", user.RoleStudent, true)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":     "this field is required",
				"email":    "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "invalid email & short password",
			body:     []byte(`{"name": "Lol Cat", "email": "lolcat", "password": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":    "email must be a valid email address",
				"password": "password must be at least 6 characters in length",
			}),
		},
		{
			name:     "email taken",
			body:     []byte(`{"name": "Copy Cat", "email": "` + existing.Email + `", "password": "secretpwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("registration creates an active student", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/register",
			[]byte(`{"name": "Hero Kid", "email": "Hero@Test.cd", "password": "secretpwd"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var usr user.User
		decodeBody(t, rec, &usr)
		assert.NotZero(t, usr.ID)
		assert.Equal(t, "Hero Kid", usr.Name)
		assert.Equal(t, "hero@test.cd", usr.Email) // lowered
		assert.Equal(t, user.RoleStudent, usr.Role)
		assert.True(t, usr.IsActive)
	})
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	usr := createUser(t, "Awe Some", "awe@test.cd", "secretpwd", user.RoleStudent, true)
	createUser(t, "N Dog", "ndog@test.cd", "secretpwd", user.RoleStudent, false)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email": "who@test.cd", "password": "secretpwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "awe@test.cd", "password": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "deactivated account",
			body:     []byte(`{"email": "ndog@test.cd", "password": "secretpwd"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("successful login returns a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			[]byte(`{"email": "Awe@Test.cd", "password": "secretpwd"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)

		// lastLogin is set
		refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
		require.NoError(t, err)
		assert.True(t, refreshed.LastLogin.Valid)
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)

	usr := createUser(t, "Awe Some", "awe@test.cd", "secretpwd", user.RoleStudent, true)

	t.Run("auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("returns a fresh token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
	})
}
