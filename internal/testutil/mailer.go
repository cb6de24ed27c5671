// internal/testutil/mailer.go
package testutil

import (
	"sync"

	"github.com/shulehub/shulehub/internal/app/system/mailer"
)

// FakeMailer records outbound email for assertions.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []mailer.Email
	Err  error
}

func (f *FakeMailer) Send(msg mailer.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, msg)
	return nil
}

// Last returns the most recently sent email, or false when none was sent.
func (f *FakeMailer) Last() (mailer.Email, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return mailer.Email{}, false
	}
	return f.Sent[len(f.Sent)-1], true
}
