package api

import (
	"strconv"

	"github.com/tarviz/pipeboard/internal/board"
)

// UserRef is the compact user object embedded in content item payloads.
type UserRef struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Name returns the user's display name.
func (u *UserRef) Name() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// ContentItem is the wire representation of a pipeline item as returned
// by the content-items listing endpoint.
type ContentItem struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	CreativeCopy        string   `json:"creative_copy,omitempty"`
	PostCaption         string   `json:"post_caption,omitempty"`
	DueDate             string   `json:"due_date,omitempty"`
	Platforms           []string `json:"platforms,omitempty"`
	Column              string   `json:"column"`
	Priority            string   `json:"priority,omitempty"`
	UnreadCommentsCount int      `json:"unread_comments_count,omitempty"`
	Thumbnail           string   `json:"thumbnail,omitempty"`
	ScheduledAt         string   `json:"scheduled_at,omitempty"`
	Client              *UserRef `json:"client,omitempty"`
	AssignedTo          *UserRef `json:"assigned_to,omitempty"`
}

// ToItem converts the wire representation to the internal board model.
//
// The backend column label is mapped through the total stage mapping, so
// items with unknown columns land in backlog instead of breaking the fetch.
// Items without a client resolve to an empty ClientID and are dropped
// later during grouping.
func (c *ContentItem) ToItem() board.Item {
	clientID := ""
	if c.Client != nil && c.Client.ID != 0 {
		clientID = strconv.FormatInt(c.Client.ID, 10)
	}

	return board.Item{
		ID:             strconv.FormatInt(c.ID, 10),
		ClientID:       clientID,
		Stage:          board.StageFromLabel(c.Column),
		Title:          c.Title,
		DueDate:        c.DueDate,
		Priority:       c.Priority,
		Platforms:      c.Platforms,
		Copy:           c.CreativeCopy,
		Caption:        c.PostCaption,
		Thumbnail:      c.Thumbnail,
		Client:         c.Client.Name(),
		AssignedTo:     c.AssignedTo.Name(),
		UnreadComments: c.UnreadCommentsCount,
	}
}

// Items converts a listing response to board items.
func Items(wire []ContentItem) []board.Item {
	out := make([]board.Item, 0, len(wire))
	for i := range wire {
		out = append(out, wire[i].ToItem())
	}
	return out
}
