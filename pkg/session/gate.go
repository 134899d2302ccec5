package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formclient/pkg/model"
)

// ErrNoSession means no roll number was stored; the caller must send the user
// to the login entry point.
var ErrNoSession = errors.New("session: no roll number stored")

// Gate guards entry to the form.
type Gate struct {
	store Store
}

// NewGate builds a Gate reading from store.
func NewGate(store Store) Gate {
	return Gate{store: store}
}

// RollNumber returns the stored roll number, which is also the form-fetch
// key. It returns ErrNoSession when the key is absent or empty.
func (g Gate) RollNumber() (string, error) {
	if g.store == nil {
		return "", ErrNoSession
	}
	roll, ok := g.store.Get(KeyRollNumber)
	if !ok || roll == "" {
		return "", ErrNoSession
	}
	return roll, nil
}

// UserName returns the stored display name, if any.
func (g Gate) UserName() string {
	if g.store == nil {
		return ""
	}
	name, _ := g.store.Get(KeyUserName)
	return name
}

// UserCreator performs the user-creation call made at login.
type UserCreator interface {
	CreateUser(ctx context.Context, user model.User) error
}

// Login registers user with creator and, on success only, stores the roll
// number and display name.
func Login(ctx context.Context, creator UserCreator, store Store, user model.User) error {
	if creator == nil {
		return errors.New("session: user creator is required")
	}
	if err := creator.CreateUser(ctx, user); err != nil {
		return err
	}
	if err := store.Set(KeyRollNumber, user.RollNumber); err != nil {
		return fmt.Errorf("session: store roll number: %w", err)
	}
	if err := store.Set(KeyUserName, user.Name); err != nil {
		return fmt.Errorf("session: store user name: %w", err)
	}
	return nil
}

// Logout removes the roll number and display name.
func Logout(store Store) error {
	return errors.Join(store.Delete(KeyRollNumber), store.Delete(KeyUserName))
}
