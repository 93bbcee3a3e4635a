// internal/domain/models/list.go
package models

import "time"

// List is a named, shareable collection of items.
//
// NOTE:
//   - Items and Users are embedded; a list document is always read and
//     written as a whole (PushItem is the only partial update).
//   - Title is unique across all lists. A unique index backs the
//     service-level check.
//   - Revision is bumped on every write and compared on replace so a
//     stale read-modify-write cannot overwrite a newer document.
type List struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	DateAdded time.Time `bson:"dateAdded" json:"dateAdded"`
	Items     []Item    `bson:"items" json:"items"`
	Users     []User    `bson:"users" json:"users"`

	Revision int64 `bson:"revision" json:"-"`
}

// Item is a single entry of a list. Name is unique among its siblings
// only when changed through a rename.
type Item struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	DateAdded  time.Time `bson:"dateAdded" json:"dateAdded"`
	IsSelected bool      `bson:"isSelected" json:"isSelected"`
}

// User is a list member as known to the external auth service.
type User struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
}

// UserView is the client-facing projection of a list member.
// Internal user ids are never exposed to other members.
type UserView struct {
	Username string `json:"username"`
}

// ListView is the projection returned when listing a user's lists.
type ListView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DateAdded time.Time  `json:"dateAdded"`
	Items     []Item     `json:"items"`
	Users     []UserView `json:"users"`
}

// HasUser reports whether userID is a member of the list.
func (l List) HasUser(userID string) bool {
	for _, u := range l.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// View returns the client-facing projection of l.
func (l List) View() ListView {
	users := make([]UserView, 0, len(l.Users))
	for _, u := range l.Users {
		users = append(users, UserView{Username: u.Username})
	}
	items := l.Items
	if items == nil {
		items = []Item{}
	}
	return ListView{
		ID:        l.ID,
		Title:     l.Title,
		DateAdded: l.DateAdded,
		Items:     items,
		Users:     users,
	}
}

// Clone returns a deep copy of l.
func (l List) Clone() List {
	out := l
	if l.Items != nil {
		out.Items = append(make([]Item, 0, len(l.Items)), l.Items...)
	}
	if l.Users != nil {
		out.Users = append(make([]User, 0, len(l.Users)), l.Users...)
	}
	return out
}
