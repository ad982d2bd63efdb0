package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Identity is what an external login hands back
type Identity struct {
	Email string
	Name  string
}

// IdentityProvider authenticates a user outside this process
type IdentityProvider interface {
	Identify(ctx context.Context) (Identity, error)
}

// GuestProvider invents a Google-looking identity without talking to anyone.
// Email and name numbers are drawn independently from [0, 1000).
type GuestProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGuestProvider(src rand.Source) *GuestProvider {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &GuestProvider{rnd: rand.New(src)}
}

func (p *GuestProvider) Identify(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return Identity{
		Email: fmt.Sprintf("user%d@gmail.com", p.rnd.Intn(1000)),
		Name:  fmt.Sprintf("Google User %d", p.rnd.Intn(1000)),
	}, nil
}
