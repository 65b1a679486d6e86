package persistence

import (
	"context"
	"errors"

	"github.com/gymflow/portal/internal/domain"
)

type rejectingAuth struct{}

func (rejectingAuth) Login(context.Context, string, string) (domain.AuthResult, error) {
	return domain.AuthResult{}, errors.New("rejected")
}

func (rejectingAuth) Register(context.Context, domain.Registration) (domain.AuthResult, error) {
	return domain.AuthResult{}, errors.New("rejected")
}

func (rejectingAuth) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, errors.New("rejected")
}
