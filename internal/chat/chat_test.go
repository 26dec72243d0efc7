package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/start", "/start", true},
		{"  /NewOrder@order_bot extra", "/neworder", true},
		{"hello", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Command(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCallback(t *testing.T) {
	action, arg := ParseCallback(ProductCallback(ActionInc, 12))
	assert.Equal(t, ActionInc, action)
	assert.Equal(t, "12", arg)

	action, arg = ParseCallback(CallbackData(ActionLocation, "4Seasons"))
	assert.Equal(t, ActionLocation, action)
	assert.Equal(t, "4Seasons", arg)

	action, arg = ParseCallback(ActionConfirm)
	assert.Equal(t, ActionConfirm, action)
	assert.Empty(t, arg)
}

func TestReplyAdd(t *testing.T) {
	r := &Reply{}
	r.Add(Text("a")).Add(Text("b"))
	assert.Len(t, r.Messages, 2)
	assert.False(t, Event{Text: "x"}.IsCallback())
	assert.True(t, Event{Callback: ActionCancel}.IsCallback())
}
