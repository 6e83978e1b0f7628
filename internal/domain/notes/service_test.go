package notes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	byID map[uuid.UUID]*Note
}

func newMockRepo() *mockRepo { return &mockRepo{byID: map[uuid.UUID]*Note{}} }

func (m *mockRepo) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	m.byID[n.ID] = n
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, memberID, id uuid.UUID) (*Note, error) {
	n, ok := m.byID[id]
	if !ok || n.MemberID != memberID {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockRepo) ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var out []*Note
	for _, n := range m.byID {
		if n.MemberID == memberID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(ctx context.Context, n *Note) error {
	existing, ok := m.byID[n.ID]
	if !ok || existing.MemberID != n.MemberID {
		return ErrNotFound
	}
	m.byID[n.ID] = n
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, memberID, id uuid.UUID) error {
	n, ok := m.byID[id]
	if !ok || n.MemberID != memberID {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func TestCreateNote(t *testing.T) {
	svc := NewService(newMockRepo())
	owner := uuid.New()

	n, err := svc.Create(context.Background(), owner, nil, "remember to ask about dosage", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID == uuid.Nil || n.MemberID != owner {
		t.Errorf("note not initialized: %+v", n)
	}

	if _, err := svc.Create(context.Background(), owner, nil, "   ", false); err == nil {
		t.Error("blank body accepted")
	}
	if _, err := svc.Create(context.Background(), owner, nil, strings.Repeat("x", maxBodyLength+1), false); err == nil {
		t.Error("oversized body accepted")
	}
}

func TestNotes_OwnerScoped(t *testing.T) {
	svc := NewService(newMockRepo())
	owner := uuid.New()
	stranger := uuid.New()

	n, err := svc.Create(context.Background(), owner, nil, "private", false)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), stranger, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign member read a note: %v", err)
	}
	if _, err := svc.Update(context.Background(), stranger, n.ID, nil, "hijack", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign member updated a note: %v", err)
	}
	if err := svc.Delete(context.Background(), stranger, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign member deleted a note: %v", err)
	}

	if _, err := svc.Get(context.Background(), owner, n.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
}

func TestUpdateNote(t *testing.T) {
	svc := NewService(newMockRepo())
	owner := uuid.New()

	n, err := svc.Create(context.Background(), owner, nil, "before", false)
	if err != nil {
		t.Fatal(err)
	}
	title := "follow up"
	updated, err := svc.Update(context.Background(), owner, n.ID, &title, "after", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Body != "after" || !updated.Pinned || updated.Title == nil || *updated.Title != title {
		t.Errorf("update not applied: %+v", updated)
	}
}
