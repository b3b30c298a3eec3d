package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/session"
	"tableflip.dev/skej/pkg/wire"
)

type Login struct {
	Email    string
	Password string

	Service api.Service
	Session *session.Store
}

func (n *Login) Do(ctx context.Context) error {
	if n.Service == nil || n.Session == nil {
		return errors.New("can not login, no service")
	}
	if n.Email == "" || n.Password == "" {
		return errors.New("email and password are required")
	}

	resp, err := n.Service.Login(ctx, wire.Credentials{Email: n.Email, Password: n.Password})
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return err
	}

	n.Session.Login(n.Email, resp.AccessToken)

	g := color.New(color.FgHiGreen)
	_, _ = g.Printf("Logged in as %s\n", n.Email)
	return nil
}

// Signup registers a new account and logs it in.
type Signup struct {
	Email    string
	Password string
	Username string
	FullName string

	Service api.Service
	Session *session.Store
}

func (n *Signup) Do(ctx context.Context) error {
	if n.Service == nil || n.Session == nil {
		return errors.New("can not sign up, no service")
	}
	if n.Email == "" || n.Password == "" {
		return errors.New("email and password are required")
	}

	resp, err := n.Service.Signup(ctx, wire.Credentials{
		Email:    n.Email,
		Password: n.Password,
		Username: n.Username,
		FullName: n.FullName,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	n.Session.Login(n.Email, resp.AccessToken)

	g := color.New(color.FgHiGreen)
	_, _ = g.Printf("Account created, logged in as %s\n", n.Email)
	return nil
}

// Logout drops the persisted session.
type Logout struct {
	Session *session.Store
}

func (n *Logout) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not logout, no session")
	}
	n.Session.Logout()
	fmt.Println("Logged out")
	return nil
}
