package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/maoni/core/catalog"
	"github.com/trezcool/maoni/core/user"
)

func Test_catalogApi_courses(t *testing.T) {
	app := setup(t)

	studentToken := getToken(t, createUser(t, "Hero Kid", "hero@test.cd", "", user.RoleStudent, true))
	adminToken := getToken(t, createUser(t, "Admin One", "admin@test.cd", "", user.RoleAdmin, true))

	algebra := createCourse(t, "Algebra")
	zoology := createCourse(t, "Zoology")
	biology := createCourse(t, "Biology")

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/v1/courses",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "creation is admin only", method: http.MethodPost, path: "/v1/courses",
			body: []byte(`{"name": "Chemistry"}`), token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "name required", method: http.MethodPost, path: "/v1/courses",
			body: []byte(`{}`), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "students list courses by name", method: http.MethodGet, path: "/v1/courses",
			token: studentToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, []catalog.Course{algebra, biology, zoology}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("admin creates a course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses", adminToken, []byte(`{"name": "  Chemistry "}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var crs catalog.Course
		decodeBody(t, rec, &crs)
		assert.NotZero(t, crs.ID)
		assert.Equal(t, "Chemistry", crs.Name) // trimmed
	})
}

func Test_catalogApi_teachers(t *testing.T) {
	app := setup(t)

	studentToken := getToken(t, createUser(t, "Hero Kid", "hero@test.cd", "", user.RoleStudent, true))
	adminToken := getToken(t, createUser(t, "Admin One", "admin@test.cd", "", user.RoleAdmin, true))

	kazadi := createTeacher(t, "Mr Kazadi")
	abedi := createTeacher(t, "Ms Abedi")

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/v1/teachers",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "creation is admin only", method: http.MethodPost, path: "/v1/teachers",
			body: []byte(`{"name": "Dr Luyeye"}`), token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "name required", method: http.MethodPost, path: "/v1/teachers",
			body: []byte(`{}`), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "students list teachers by name", method: http.MethodGet, path: "/v1/teachers",
			token: studentToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, []catalog.Teacher{kazadi, abedi}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("admin creates a teacher", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/teachers", adminToken, []byte(`{"name": "Dr Luyeye"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var tchr catalog.Teacher
		decodeBody(t, rec, &tchr)
		assert.NotZero(t, tchr.ID)
		assert.Equal(t, "Dr Luyeye", tchr.Name)
	})
}
