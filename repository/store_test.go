package repository

import (
	"testing"
	"time"

	"main/model"
)

func TestSortByUpdatedAtDesc(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memos := []*model.Memo{
		{ID: "oldest", UpdatedAt: base.Add(-2 * time.Hour)},
		{ID: "newest", UpdatedAt: base},
		{ID: "middle", UpdatedAt: base.Add(-time.Hour)},
	}

	sortByUpdatedAtDesc(memos, func(m *model.Memo) time.Time { return m.UpdatedAt })

	want := []string{"newest", "middle", "oldest"}
	for i, id := range want {
		if memos[i].ID != id {
			t.Errorf("position %d: want %s, got %s", i, id, memos[i].ID)
		}
	}
}

func TestSortByUpdatedAtDescIsStable(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memos := []*model.Memo{
		{ID: "first", UpdatedAt: ts},
		{ID: "second", UpdatedAt: ts},
		{ID: "third", UpdatedAt: ts},
	}

	sortByUpdatedAtDesc(memos, func(m *model.Memo) time.Time { return m.UpdatedAt })

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if memos[i].ID != id {
			t.Errorf("ties must keep their original order: position %d is %s", i, memos[i].ID)
		}
	}
}
