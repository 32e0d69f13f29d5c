// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.gdsl.dev/pkg/store/storedefs"
)

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}

var (
	t0 = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	scores = []storedefs.Score{
		{Name: "petersen", Cost: 11, NaiveCost: 16, Ratio: 16.0 / 11, Breakdown: []int{1, 2, 2, 6}, Time: t0},
		{Name: "cross", Cost: 9, NaiveCost: 13, Ratio: 13.0 / 9, Time: t0.Add(time.Minute)},
		{Name: "petersen", NaiveCost: 16, Error: "nested application: call in argument position: f()",
			Time: t0.Add(2 * time.Minute)},
	}
)

// TestScores tests the score functionality of a Store.
func TestScores(t *testing.T, store storedefs.Store) {
	_, err := store.LastScore("petersen")
	if !matchErr(err, storedefs.ErrNoScore) {
		t.Errorf("LastScore on empty store -> %v, want ErrNoScore", err)
	}

	for i, sc := range scores {
		wantSeq := 1
		if i == 2 {
			wantSeq = 2
		}
		seq, err := store.AddScore(sc)
		if seq != wantSeq || err != nil {
			t.Errorf("AddScore(%v) -> %d, %v, want %d, nil", sc.Name, seq, err, wantSeq)
		}
	}

	withSeq := func(sc storedefs.Score, seq int) storedefs.Score {
		sc.Seq = seq
		return sc
	}
	wantPetersen := []storedefs.Score{withSeq(scores[0], 1), withSeq(scores[2], 2)}
	got, err := store.Scores("petersen")
	if err != nil {
		t.Errorf("Scores -> error %v", err)
	}
	if diff := cmp.Diff(wantPetersen, got); diff != "" {
		t.Errorf("Scores(petersen) (-want +got):\n%s", diff)
	}

	last, err := store.LastScore("cross")
	if err != nil || !cmp.Equal(last, withSeq(scores[1], 1)) {
		t.Errorf("LastScore(cross) -> %v, %v", last, err)
	}

	names, err := store.Names()
	if err != nil || !cmp.Equal(names, []string{"cross", "petersen"}) {
		t.Errorf("Names() -> %v, %v, want [cross petersen]", names, err)
	}

	if none, err := store.Scores("unknown"); none != nil || err != nil {
		t.Errorf("Scores(unknown) -> %v, %v, want nil, nil", none, err)
	}

	if err := store.DelScores("petersen"); err != nil {
		t.Errorf("DelScores -> error %v", err)
	}
	if err := store.DelScores("petersen"); err != nil {
		t.Errorf("DelScores of a deleted name -> error %v", err)
	}
	_, err = store.LastScore("petersen")
	if !matchErr(err, storedefs.ErrNoScore) {
		t.Errorf("LastScore after DelScores -> %v, want ErrNoScore", err)
	}

	// Sequence numbers restart for a deleted name.
	seq, err := store.AddScore(scores[0])
	if seq != 1 || err != nil {
		t.Errorf("AddScore after DelScores -> %d, %v, want 1, nil", seq, err)
	}
}
