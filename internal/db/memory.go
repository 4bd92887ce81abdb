package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-structurer/internal/types"
)

// MemoryStore is a Store kept in process memory. It is used when no
// DATABASE_URL is configured and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	uploads map[uuid.UUID]Upload
	github  map[uuid.UUID]GitHubRecord
	byUser  map[string]uuid.UUID
	resumes map[uuid.UUID]StructuredResume
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		uploads: map[uuid.UUID]Upload{},
		github:  map[uuid.UUID]GitHubRecord{},
		byUser:  map[string]uuid.UUID{},
		resumes: map[uuid.UUID]StructuredResume{},
	}
}

// SetClock overrides the clock used for created_at stamps.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) SaveUpload(_ context.Context, in UploadInput) (*Upload, error) {
	warnings := append([]string{}, in.Warnings...)
	up := Upload{
		ID:          uuid.New(),
		Filename:    in.Filename,
		FileType:    in.FileType,
		FileSize:    in.FileSize,
		ContentHash: in.ContentHash,
		Encoding:    in.Encoding,
		Text:        in.Text,
		PageCount:   in.PageCount,
		Warnings:    warnings,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	up.CreatedAt = m.now().UTC()
	m.uploads[up.ID] = up
	return &up, nil
}

func (m *MemoryStore) GetUpload(_ context.Context, id uuid.UUID) (*Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	up, ok := m.uploads[id]
	if !ok {
		return nil, nil
	}
	return &up, nil
}

func (m *MemoryStore) UpsertGitHubData(_ context.Context, data *types.GitHubData, fetchedAt, expiresAt time.Time) (*GitHubRecord, error) {
	username := NormalizeUsername(data.Profile.Username)

	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUser[username]
	if !ok {
		id = uuid.New()
		m.byUser[username] = id
	}
	rec := GitHubRecord{
		ID:             id,
		Username:       username,
		Data:           *data,
		FetchedAt:      fetchedAt,
		CacheExpiresAt: expiresAt,
	}
	m.github[id] = rec
	return &rec, nil
}

func (m *MemoryStore) GetGitHubDataByUsername(_ context.Context, username string, now time.Time) (*GitHubRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUser[NormalizeUsername(username)]
	if !ok {
		return nil, nil
	}
	rec := m.github[id]
	if !rec.Fresh(now) {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) GetGitHubData(_ context.Context, id uuid.UUID) (*GitHubRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.github[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) SaveStructuredResume(_ context.Context, in StructuredResumeInput) (*StructuredResume, error) {
	decisions := in.Output.DecisionLog
	if decisions == nil {
		decisions = []types.DecisionLogEntry{}
	}
	rec := StructuredResume{
		ID:                 uuid.New(),
		ResumeUploadID:     in.ResumeUploadID,
		GitHubDataID:       in.GitHubDataID,
		StructuredResume:   in.Output.StructuredResume,
		DecisionLog:        decisions,
		CustomInstructions: in.CustomInstructions,
		Settings:           in.Settings,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rec.CreatedAt = m.now().UTC()
	m.resumes[rec.ID] = rec
	return &rec, nil
}

func (m *MemoryStore) GetStructuredResume(_ context.Context, id uuid.UUID) (*StructuredResume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) ListStructuredResumes(_ context.Context, limit, offset int) ([]StructuredResume, error) {
	m.mu.RLock()
	all := make([]StructuredResume, 0, len(m.resumes))
	for _, rec := range m.resumes {
		all = append(all, rec)
	}
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []StructuredResume{}, nil
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() {}
