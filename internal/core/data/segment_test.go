package data

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func segmentFixture(session string, offset time.Duration, payload ...byte) Segment {
	return Segment{
		Session:     session,
		Direction:   ClientToServer,
		CapturedAt:  epoch.Add(offset),
		Source:      "10.0.0.2:50000",
		Destination: "10.0.0.1:43594",
		Payload:     payload,
	}
}

func TestSaveSegment(t *testing.T) {
	db := setUpDatabase(t)

	segment := segmentFixture("login", 0, 0x0E, 0x01)
	segment.Layout = "handshake"
	segment.Decoded = `[{"field":"opcode","kind":"scalar","int":14}]`
	if err := SaveSegment(db, &segment); err != nil {
		t.Fatalf("SaveSegment() error = %v", err)
	}
	if segment.ID == 0 {
		t.Fatal("SaveSegment() did not assign an ID")
	}

	got, err := FindSegmentsBySession(db, "login")
	if err != nil {
		t.Fatalf("FindSegmentsBySession() error = %v", err)
	}
	if diff := cmp.Diff([]Segment{segment}, got, cmpopts.IgnoreFields(Segment{}, "CreatedAt")); diff != "" {
		t.Errorf("FindSegmentsBySession() returned the wrong segments; diff:\n%s", diff)
	}
}

func TestFindSegmentsBySession(t *testing.T) {
	db := setUpDatabase(t)

	// Inserted out of order to check that captures come back chronologically.
	seeded := []Segment{
		segmentFixture("a", 2*time.Second, 0x03),
		segmentFixture("b", 1*time.Second, 0xFF),
		segmentFixture("a", 0, 0x01),
		segmentFixture("a", 1*time.Second, 0x02),
	}
	if err := SaveSegments(db, seeded); err != nil {
		t.Fatalf("SaveSegments() error = %v", err)
	}

	tests := []struct {
		name     string
		session  string
		payloads [][]byte
	}{
		{name: "ordered by capture time", session: "a", payloads: [][]byte{{0x01}, {0x02}, {0x03}}},
		{name: "single segment", session: "b", payloads: [][]byte{{0xFF}}},
		{name: "unknown session", session: "c", payloads: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := FindSegmentsBySession(db, tt.session)
			if err != nil {
				t.Fatalf("FindSegmentsBySession() error = %v", err)
			}
			var payloads [][]byte
			for _, s := range segments {
				payloads = append(payloads, s.Payload)
			}
			if diff := cmp.Diff(tt.payloads, payloads); diff != "" {
				t.Errorf("FindSegmentsBySession() returned the wrong payloads; diff:\n%s", diff)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	db := setUpDatabase(t)

	if err := SaveSegments(db, []Segment{
		segmentFixture("keep", 0, 0x01),
		segmentFixture("drop", 0, 0x02),
		segmentFixture("drop", time.Second, 0x03),
	}); err != nil {
		t.Fatalf("SaveSegments() error = %v", err)
	}
	if err := DeleteSession(db, "drop"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	for session, want := range map[string]int{"keep": 1, "drop": 0} {
		segments, err := FindSegmentsBySession(db, session)
		if err != nil {
			t.Fatalf("FindSegmentsBySession() error = %v", err)
		}
		if len(segments) != want {
			t.Errorf("session %s: want %d segments, got %d", session, want, len(segments))
		}
	}
}

func TestSaveSegments_Empty(t *testing.T) {
	db := setUpDatabase(t)
	if err := SaveSegments(db, nil); err != nil {
		t.Errorf("SaveSegments() error = %v", err)
	}
}
