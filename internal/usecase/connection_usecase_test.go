package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase"
	"github.com/coinfolio/coinfolio/internal/usecase/mocks"
)

func newConnectionUseCase(dir *mocks.MockConnectionDirectory) *usecase.ConnectionUseCase {
	return usecase.NewConnectionUseCase(dir, mocks.NewMockSecretCipher(), mocks.NewMockIDGenerator(), zerolog.Nop())
}

func TestConnectionCreate(t *testing.T) {
	dir := mocks.NewMockConnectionDirectory()
	uc := newConnectionUseCase(dir)

	conn, err := uc.Create(context.Background(), usecase.CreateConnectionInput{
		Exchange:  " Binance ",
		Label:     "main account",
		APIKey:    " key ",
		APISecret: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conn.Exchange != "binance" {
		t.Errorf("exchange not normalized: %q", conn.Exchange)
	}
	if conn.APIKey != "key" {
		t.Errorf("api key not trimmed: %q", conn.APIKey)
	}
	if conn.APISecret != "enc:secret" {
		t.Errorf("secret stored in the clear: %q", conn.APISecret)
	}

	stored, err := dir.GetByID(context.Background(), conn.ID)
	if err != nil {
		t.Fatalf("fetching stored connection: %v", err)
	}
	if stored.APISecret != "enc:secret" {
		t.Errorf("directory holds plaintext secret: %q", stored.APISecret)
	}
}

func TestConnectionCreate_UnsupportedExchange(t *testing.T) {
	uc := newConnectionUseCase(mocks.NewMockConnectionDirectory())

	_, err := uc.Create(context.Background(), usecase.CreateConnectionInput{
		Exchange: "kraken", APIKey: "k", APISecret: "s",
	})
	if !errors.Is(err, domain.ErrUnsupportedExchange) {
		t.Fatalf("expected ErrUnsupportedExchange, got %v", err)
	}
}

func TestConnectionCreate_DuplicateExchange(t *testing.T) {
	dir := mocks.NewMockConnectionDirectory()
	uc := newConnectionUseCase(dir)

	ctx := context.Background()
	if _, err := uc.Create(ctx, usecase.CreateConnectionInput{
		Exchange: "binance", APIKey: "k1", APISecret: "s1",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := uc.Create(ctx, usecase.CreateConnectionInput{
		Exchange: "BINANCE", APIKey: "k2", APISecret: "s2",
	})
	if !errors.Is(err, domain.ErrDuplicateConnection) {
		t.Fatalf("expected ErrDuplicateConnection, got %v", err)
	}
}

func TestConnectionDelete(t *testing.T) {
	dir := mocks.NewMockConnectionDirectory()
	uc := newConnectionUseCase(dir)

	ctx := context.Background()
	conn, err := uc.Create(ctx, usecase.CreateConnectionInput{
		Exchange: "binance", APIKey: "k", APISecret: "s",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.Delete(ctx, conn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := uc.Delete(ctx, conn.ID); !errors.Is(err, domain.ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}

func TestConnectionList(t *testing.T) {
	dir := mocks.NewMockConnectionDirectory()
	uc := newConnectionUseCase(dir)

	conns, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conns) != 0 {
		t.Errorf("expected empty directory, got %d", len(conns))
	}
}
