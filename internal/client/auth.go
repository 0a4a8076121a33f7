package client

import (
	"context"
	"net/http"

	"messapp/internal/domain/model"
	auth "messapp/internal/usecase/auth_usecase"
)

type credentials struct {
	Enrollment string `json:"enrollment"`
	Name       string `json:"name,omitempty"`
	Password   string `json:"password"`
}

func (c *Client) Register(ctx context.Context, enrollment, name, password string) (model.User, error) {
	var u model.User
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", nil,
		credentials{Enrollment: enrollment, Name: name, Password: password}, &u)
	return u, err
}

// Login stores the access token for every later call.
func (c *Client) Login(ctx context.Context, enrollment, password string) (auth.LoginOutput, error) {
	var out auth.LoginOutput
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil,
		credentials{Enrollment: enrollment, Password: password}, &out); err != nil {
		return auth.LoginOutput{}, err
	}
	c.setSession(out.Token.AccessToken, out.User.ID)
	return out, nil
}

// Logout revokes every token of the user and forgets the local one.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.setSession("", 0)
	return nil
}
