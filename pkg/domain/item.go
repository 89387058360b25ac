package domain

import (
	"time"
)

// ClipboardItem is one stored text snippet. The server assigns ID and both
// timestamps; ShareCode is non-nil iff IsShared is true.
type ClipboardItem struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	IsShared  bool      `json:"is_shared"`
	ShareCode *string   `json:"share_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Shared reports whether the item satisfies the share invariant and is
// currently shared.
func (i *ClipboardItem) Shared() bool {
	return i.IsShared && i.ShareCode != nil
}

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// SharedView is the read-only projection handed to a visitor who resolved a
// share code. It deliberately carries no item ID and no owner identifier.
type SharedView struct {
	OwnerName string    `json:"owner_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SignupParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
