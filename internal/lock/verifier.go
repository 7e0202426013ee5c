package lock

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidCode = errors.New("invalid QR code")

// Verifier checks that a scanned QR code unlocks the given bike.
type Verifier interface {
	Verify(ctx context.Context, bikeID uuid.UUID, code string) error
}

// StubVerifier accepts any non-blank code. There is no lock hardware to ask.
type StubVerifier struct{}

func NewStubVerifier() *StubVerifier {
	return &StubVerifier{}
}

func (StubVerifier) Verify(_ context.Context, _ uuid.UUID, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidCode
	}
	return nil
}
