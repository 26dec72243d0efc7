package auth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/domain"
)

const RejectionMessage = "Sorry, you are not authorized to use this bot."

// AllowList grants access by numeric user id or by @handle. Handles compare
// case-insensitively.
type AllowList struct {
	ids     map[int64]struct{}
	handles map[string]struct{}
}

// ParseAllowList accepts entries such as "12345" or "@someone". Anything else
// is ignored.
func ParseAllowList(entries []string) AllowList {
	al := AllowList{
		ids:     make(map[int64]struct{}),
		handles: make(map[string]struct{}),
	}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		switch {
		case strings.HasPrefix(e, "@") && len(e) > 1:
			al.handles[strings.ToLower(e)] = struct{}{}
		default:
			if id, err := strconv.ParseInt(e, 10, 64); err == nil {
				al.ids[id] = struct{}{}
			}
		}
	}
	return al
}

func (a AllowList) Len() int {
	return len(a.ids) + len(a.handles)
}

func (a AllowList) Allows(u chat.User) bool {
	if _, ok := a.ids[u.ID]; ok {
		return true
	}
	if u.Username == "" {
		return false
	}
	handle := strings.ToLower(u.Username)
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	_, ok := a.handles[handle]
	return ok
}

func (a AllowList) Check(u chat.User) error {
	if !a.Allows(u) {
		return fmt.Errorf("user %d: %w", u.ID, domain.ErrUnauthorized)
	}
	return nil
}
