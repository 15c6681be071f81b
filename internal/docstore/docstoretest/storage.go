package docstoretest

import (
	"context"
	"fmt"
	"sync"
)

// Storage resolves file ids to fake CDN URLs. Ids listed in Broken fail.
type Storage struct {
	mu     sync.Mutex
	Broken map[string]error
	Calls  int
}

func NewStorage() *Storage {
	return &Storage{Broken: map[string]error{}}
}

func (s *Storage) FileView(ctx context.Context, bucket, fileID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	if err := s.Broken[fileID]; err != nil {
		return "", err
	}
	return fmt.Sprintf("https://cdn.test/%s/%s/view", bucket, fileID), nil
}

func (s *Storage) FilePreview(ctx context.Context, bucket, fileID string, width, height int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	if err := s.Broken[fileID]; err != nil {
		return "", err
	}
	return fmt.Sprintf("https://cdn.test/%s/%s/preview?w=%d&h=%d", bucket, fileID, width, height), nil
}
