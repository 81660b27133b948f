package user

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	verrs, ok := err.(validation.Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return verrs
}

func TestRegisterRequest_Validate(t *testing.T) {
	cases := []struct {
		name  string
		req   RegisterRequest
		field string
		msg   string
	}{
		{"missing username", RegisterRequest{Password: "sekret"}, "username", "`username` is required"},
		{"short username", RegisterRequest{Username: "ro", Password: "sekret"}, "username", "`username` is shorter than the minimum allowed length (3)"},
		{"long username", RegisterRequest{Username: strings.Repeat("a", 51), Password: "sekret"}, "username", "`username` is longer than the maximum allowed length (50)"},
		{"missing password", RegisterRequest{Username: "root"}, "password", "password missing"},
		{"short password", RegisterRequest{Username: "root", Password: "pw"}, "password", "password must be at least 3 characters long"},
		{"long password", RegisterRequest{Username: "root", Password: strings.Repeat("p", 73)}, "password", "password must be at most 72 bytes long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.Normalize()
			verrs := fieldErrors(t, tc.req.Validate())
			assert.EqualError(t, verrs[tc.field], tc.msg)
		})
	}
}

func TestRegisterRequest_NormalizeTrims(t *testing.T) {
	req := RegisterRequest{Username: "  root ", Name: " Superuser ", Password: " sekret "}
	req.Normalize()

	assert.Equal(t, "root", req.Username)
	assert.Equal(t, "Superuser", req.Name)
	assert.Equal(t, " sekret ", req.Password)
	assert.NoError(t, req.Validate())

	// whitespace-only username counts as missing
	req = RegisterRequest{Username: "   ", Password: "sekret"}
	req.Normalize()
	verrs := fieldErrors(t, req.Validate())
	assert.EqualError(t, verrs["username"], "`username` is required")
}

func TestUser_ToResponse(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "root", PasswordHash: "hash"}

	resp := u.ToResponse()
	assert.NotNil(t, resp.Blogs)
	assert.Empty(t, resp.Blogs)

	blogID := uuid.New()
	u.Blogs = []BlogRef{{ID: blogID, Title: "t"}}
	assert.Equal(t, []uuid.UUID{blogID}, u.BlogIDs())
}
