package event

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	events map[int64]*Event
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Event, error) {
	return f.events[id], nil
}

func (f *fakeStore) ListApplicationPossibleCourses(_ context.Context, kindID int64, now time.Time) ([]*Event, error) {
	var out []*Event
	for id := int64(1); id <= int64(len(f.events)); id++ {
		e := f.events[id]
		if e != nil && e.IsCourse() && e.KindID != nil && *e.KindID == kindID && e.ApplicationPossible(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestGetInGroup(t *testing.T) {
	svc := NewService(&fakeStore{events: map[int64]*Event{
		1: {ID: 1, Name: "Camp", GroupIDs: []int64{10, 11}},
	}})

	if _, err := svc.GetInGroup(context.Background(), 11, 1); err != nil {
		t.Fatalf("GetInGroup: %v", err)
	}
	if _, err := svc.GetInGroup(context.Background(), 12, 1); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
	if _, err := svc.GetInGroup(context.Background(), 10, 2); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestAlternativesExcludeEvent(t *testing.T) {
	kind := int64(3)
	other := int64(4)
	store := &fakeStore{events: map[int64]*Event{
		1: {ID: 1, Kind: KindCourse, KindID: &kind, SupportsApplications: true},
		2: {ID: 2, Kind: KindCourse, KindID: &kind, SupportsApplications: true},
		3: {ID: 3, Kind: KindCourse, KindID: &other, SupportsApplications: true},
		4: {ID: 4, Kind: KindCourse, KindID: &kind},
	}}
	svc := NewService(store)

	alts, err := svc.Alternatives(context.Background(), store.events[1])
	if err != nil {
		t.Fatalf("Alternatives: %v", err)
	}
	if len(alts) != 1 || alts[0].ID != 2 {
		t.Fatalf("alternatives = %v", alts)
	}

	none, err := svc.Alternatives(context.Background(), &Event{ID: 9, Kind: KindSimple})
	if err != nil || none != nil {
		t.Fatalf("simple event alternatives = %v, %v", none, err)
	}
}
