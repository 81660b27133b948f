package blog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloglist-backend/internal/shared/apperr"
)

func TestLikeCount_Accepts(t *testing.T) {
	cases := map[string]LikeCount{
		`50`:         50,
		`0`:          0,
		`"50"`:       50,
		`" 7 "`:      7,
		`50.0`:       50,
		`5e1`:        50,
		`-3`:         -3,
		`"12.0"`:     12,
		`2147483647`: 2147483647,
	}
	for raw, want := range cases {
		var l LikeCount
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		assert.Equal(t, want, l, raw)
	}
}

func TestLikeCount_Rejects(t *testing.T) {
	for _, raw := range []string{`["50"]`, `{"n":1}`, `true`, `"abc"`, `""`, `1.5`, `"1e20"`, `2147483648`, `"3000000000"`, `10000000000`, `-2147483649`} {
		var l LikeCount
		err := json.Unmarshal([]byte(raw), &l)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidLikes, raw)
	}
}

func TestLikeCount_InsideRequest(t *testing.T) {
	var req CreateBlogRequest
	err := json.Unmarshal([]byte(`{"title":"t","url":"u","likes":["50"]}`), &req)
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)

	req = CreateBlogRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","url":"u","likes":null}`), &req))
	assert.Nil(t, req.Likes)
	assert.Equal(t, 0, req.LikesOrZero())
}
