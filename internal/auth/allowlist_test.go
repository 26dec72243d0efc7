package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/domain"
)

func TestAllowList(t *testing.T) {
	t.Parallel()

	al := ParseAllowList([]string{"42", " @Boss ", "garbage", "@", ""})
	assert.Equal(t, 2, al.Len())

	tests := []struct {
		name string
		user chat.User
		want bool
	}{
		{name: "by id", user: chat.User{ID: 42}, want: true},
		{name: "by handle", user: chat.User{ID: 1, Username: "boss"}, want: true},
		{name: "handle case and prefix", user: chat.User{ID: 1, Username: "@BOSS"}, want: true},
		{name: "unknown", user: chat.User{ID: 7, Username: "intruder"}, want: false},
		{name: "no username", user: chat.User{ID: 7}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, al.Allows(tt.user))
			if tt.want {
				assert.NoError(t, al.Check(tt.user))
			} else {
				assert.ErrorIs(t, al.Check(tt.user), domain.ErrUnauthorized)
			}
		})
	}
}

func TestAllowList_EmptyDeniesEveryone(t *testing.T) {
	t.Parallel()

	al := ParseAllowList(nil)
	assert.False(t, al.Allows(chat.User{ID: 1, Username: "anyone"}))
}
