package lock

import (
	"context"

	"github.com/google/uuid"
)

// FakeVerifier is a test implementation of Verifier
type FakeVerifier struct {
	Codes map[uuid.UUID]string // expected code keyed by bike
}

func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{
		Codes: make(map[uuid.UUID]string),
	}
}

func (v *FakeVerifier) Verify(_ context.Context, bikeID uuid.UUID, code string) error {
	if want, ok := v.Codes[bikeID]; ok && want == code {
		return nil
	}
	return ErrInvalidCode
}

// AddBike registers the code that unlocks a bike
func (v *FakeVerifier) AddBike(bikeID uuid.UUID, code string) {
	v.Codes[bikeID] = code
}
