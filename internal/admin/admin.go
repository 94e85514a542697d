// Package admin issues the capability required by privileged reports.
package admin

import (
	"crypto/subtle"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Capability proves a successful admin login. The zero value grants nothing
// and other packages cannot construct a granted one.
type Capability struct {
	subject string
}

func (c Capability) Valid() bool {
	return c.subject != ""
}

func (c Capability) Subject() string {
	return c.subject
}

type Gate struct {
	username     string
	passwordHash []byte
}

// NewGate stores the password bcrypt-hashed. An empty username disables admin
// access entirely.
func NewGate(username, password string) (*Gate, error) {
	if username == "" {
		return &Gate{}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Gate{username: username, passwordHash: hash}, nil
}

// NewGateFromHash accepts a precomputed bcrypt hash.
func NewGateFromHash(username, hash string) (*Gate, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &Gate{username: username, passwordHash: []byte(hash)}, nil
}

func (g *Gate) Enabled() bool {
	return g != nil && g.username != ""
}

func (g *Gate) Authenticate(username, password string) (Capability, error) {
	if !g.Enabled() {
		return Capability{}, fmt.Errorf("%w: admin access disabled", domain.ErrUnauthorized)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return Capability{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return Capability{subject: username}, nil
}

// Require returns ErrUnauthorized unless c was issued by a Gate.
func Require(c Capability) error {
	if !c.Valid() {
		return fmt.Errorf("%w: admin capability required", domain.ErrUnauthorized)
	}
	return nil
}
