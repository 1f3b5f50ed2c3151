package api

import (
	"context"
)

type user struct {
	ID string `json:"id"`
}

// AdminID returns the ID of the first user with the admin role. Every calendar
// is created with an admin as owner.
func (c *Client) AdminID(ctx context.Context) (string, error) {
	var users []user
	if err := c.get(ctx, "/users?roles=admin", &users); err != nil {
		return "", err
	}

	if len(users) == 0 || users[0].ID == "" {
		return "", ErrNoAdmin
	}

	return users[0].ID, nil
}
