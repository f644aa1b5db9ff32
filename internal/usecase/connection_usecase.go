package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// SecretCipher encrypts exchange API secrets at rest.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Exchanges with an implemented provider.
var supportedExchanges = map[string]bool{
	"binance": true,
}

// ConnectionUseCase manages the exchange connection directory.
type ConnectionUseCase struct {
	directory ConnectionDirectory
	cipher    SecretCipher
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewConnectionUseCase creates a new ConnectionUseCase.
func NewConnectionUseCase(directory ConnectionDirectory, cipher SecretCipher, idGen IDGenerator, logger zerolog.Logger) *ConnectionUseCase {
	return &ConnectionUseCase{
		directory: directory,
		cipher:    cipher,
		idGen:     idGen,
		logger:    logger.With().Str("component", "connections").Logger(),
	}
}

// CreateConnectionInput represents input for registering a credential.
type CreateConnectionInput struct {
	Exchange  string
	Label     string
	APIKey    string
	APISecret string
}

// Create registers a new exchange credential. The secret is encrypted before
// it reaches the directory store. One connection per exchange.
func (uc *ConnectionUseCase) Create(ctx context.Context, input CreateConnectionInput) (*domain.Connection, error) {
	exchange := strings.ToLower(strings.TrimSpace(input.Exchange))
	if !supportedExchanges[exchange] {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedExchange, input.Exchange)
	}

	existing, err := uc.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	for _, conn := range existing {
		if conn.Exchange == exchange {
			return nil, domain.ErrDuplicateConnection
		}
	}

	encrypted, err := uc.cipher.Encrypt(strings.TrimSpace(input.APISecret))
	if err != nil {
		return nil, fmt.Errorf("encrypting secret: %w", err)
	}

	conn := &domain.Connection{
		ID:        uc.idGen.Generate(),
		Exchange:  exchange,
		Label:     input.Label,
		APIKey:    strings.TrimSpace(input.APIKey),
		APISecret: encrypted,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.directory.Create(ctx, conn); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("id", conn.ID).Str("exchange", exchange).Msg("connection registered")

	return conn, nil
}

// Get retrieves a connection by id.
func (uc *ConnectionUseCase) Get(ctx context.Context, id string) (*domain.Connection, error) {
	return uc.directory.GetByID(ctx, id)
}

// List returns all configured connections.
func (uc *ConnectionUseCase) List(ctx context.Context) ([]*domain.Connection, error) {
	return uc.directory.List(ctx)
}

// Delete removes a connection and its credential.
func (uc *ConnectionUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.directory.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info().Str("id", id).Msg("connection removed")
	return nil
}
