package handlers

import (
	"context"
	"errors"

	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
)

type fakeAccounts struct {
	login   func(services.LoginRequest) (services.LoginResult, error)
	refresh func(string) (auth.Pair, error)
	get     func(string) (models.Account, error)
}

func (f *fakeAccounts) Login(_ context.Context, req services.LoginRequest) (services.LoginResult, error) {
	return f.login(req)
}

func (f *fakeAccounts) Refresh(_ context.Context, token string) (auth.Pair, error) {
	return f.refresh(token)
}

func (f *fakeAccounts) Get(_ context.Context, id string) (models.Account, error) {
	return f.get(id)
}

type fakeCatalog struct {
	got models.CatalogFilter
	res services.CatalogResult
	err error
}

func (f *fakeCatalog) List(_ context.Context, filter models.CatalogFilter) (services.CatalogResult, error) {
	f.got = filter
	return f.res, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

var errBoom = errors.New("boom")
