// Package clipboard adapts the system clipboard as an output destination.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// Copier places rendered text on the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service is the atotto-backed Copier used outside of tests.
type Service struct{}

// NewService returns the platform clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard. Platforms without clipboard
// support get an explicit error instead of a silently dropped write.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this platform")
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
