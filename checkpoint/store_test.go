package checkpoint

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"mersproof/residue"
)

func newTestStore(t *testing.T, E uint64, power int, mode string) (*Store, *Schedule) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	sched, err := NewSchedule(E, power)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	store, err := NewStore(sched, filepath.Join(dir, "save"), mode, 0, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, sched
}

func testWords(E uint64, fill uint32) []uint32 {
	words := make([]uint32, residue.WordCount(uint32(E)))
	for i := range words {
		words[i] = fill + uint32(i)
	}
	return words
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, sched := newTestStore(t, 521, 3, "prp")
	pts := sched.Points()
	k := pts[len(pts)/2]

	words := testWords(sched.E, 0xAB)
	if err := store.Save(k, words); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(k)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Fatalf("word %d = %#x, want %#x", i, got[i], words[i])
		}
	}
}

func TestSaveIsNoOpOffSchedule(t *testing.T) {
	store, sched := newTestStore(t, 521, 3, "prp")
	// 1 is not a checkpoint for E=521, power=3 (smallest point is > 1).
	if sched.IsCheckpoint(1) {
		t.Fatalf("test assumption violated: 1 unexpectedly a checkpoint")
	}
	if err := store.Save(1, testWords(sched.E, 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(store.snapshotPath(1)); !os.IsNotExist(err) {
		t.Fatalf("expected no snapshot file for non-checkpoint iteration")
	}
}

func TestLoadRejectsNonCheckpoint(t *testing.T) {
	store, _ := newTestStore(t, 521, 3, "prp")
	if _, err := store.Load(1); !errors.Is(err, ErrNotCheckpoint) {
		t.Fatalf("Load(1) error = %v, want ErrNotCheckpoint", err)
	}
}

// TestScenarioS5 corrupts a snapshot byte and checks that Load raises
// ErrCorruptSnapshot.
func TestScenarioS5(t *testing.T) {
	store, sched := newTestStore(t, 127, 2, "prp")
	k := sched.Points()[0]
	words := testWords(sched.E, 0xCD)
	if err := store.Save(k, words); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := store.snapshotPath(k)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[5] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := store.Load(k); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("Load after corruption = %v, want ErrCorruptSnapshot", err)
	}
}

func TestIsValidToDetectsGaps(t *testing.T) {
	store, sched := newTestStore(t, 521, 3, "prp")
	pts := sched.Points()

	if !store.IsValidTo(0) {
		t.Fatalf("IsValidTo(0) should hold trivially")
	}

	// Write all but the middle checkpoint.
	for i, p := range pts {
		if i == len(pts)/2 {
			continue
		}
		if err := store.Save(p, testWords(sched.E, uint32(i))); err != nil {
			t.Fatalf("Save(%d): %v", p, err)
		}
	}

	if store.IsValidTo(sched.E) {
		t.Fatalf("IsValidTo(E) should detect the missing middle checkpoint")
	}
	if !store.IsValidTo(pts[len(pts)/2]) {
		t.Fatalf("IsValidTo should hold up to (not including) the missing checkpoint")
	}
}

// TestResumeFidelity exercises spec §8 property 6: after SaveState(buffer, k)
// and LoadState, the store resumes from k+1 with the saved words intact.
func TestResumeFidelity(t *testing.T) {
	store, sched := newTestStore(t, 521, 3, "prp")
	buffer := make([]uint64, 4)
	for i := range buffer {
		buffer[i] = uint64(i+1) * 0x1111111111
	}

	const k = uint64(100)
	if err := store.SaveState(buffer, k); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	resumed := make([]uint64, len(buffer))
	next, err := store.LoadState(resumed)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if next != k+1 {
		t.Fatalf("LoadState returned %d, want %d", next, k+1)
	}
	for i := range buffer {
		if resumed[i] != buffer[i] {
			t.Fatalf("word %d = %#x, want %#x", i, resumed[i], buffer[i])
		}
	}
	_ = sched
}

func TestLoadStateFreshSeedsPRPAndLL(t *testing.T) {
	prpStore, sched := newTestStore(t, 127, 2, "prp")
	buf := make([]uint64, 4)
	next, err := prpStore.LoadState(buf)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if next != 0 || buf[0] != seedPRP {
		t.Fatalf("fresh PRP state = (%d, %d), want (0, %d)", next, buf[0], seedPRP)
	}

	llStore, err := NewStore(sched, t.TempDir(), "ll", 0, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	buf2 := make([]uint64, 4)
	next2, err := llStore.LoadState(buf2)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if next2 != 0 || buf2[0] != seedLL {
		t.Fatalf("fresh LL state = (%d, %d), want (0, %d)", next2, buf2[0], seedLL)
	}
}

func TestClearStateRemovesBackupFiles(t *testing.T) {
	store, _ := newTestStore(t, 127, 2, "prp")
	buffer := []uint64{1, 2, 3, 4}
	if err := store.SaveState(buffer, 0); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := store.ClearState(); err != nil {
		t.Fatalf("ClearState: %v", err)
	}
	if _, err := os.Stat(store.mersFilename); !os.IsNotExist(err) {
		t.Fatalf(".mers file should be gone after ClearState")
	}
	if _, err := os.Stat(store.loopFilename); !os.IsNotExist(err) {
		t.Fatalf(".loop file should be gone after ClearState")
	}
}

func TestExponentRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, 127, 2, "pm1")
	want := mustBig("123456789012345678901234567890")
	if err := store.SaveExponent(want); err != nil {
		t.Fatalf("SaveExponent: %v", err)
	}
	got, err := store.LoadExponent()
	if err != nil {
		t.Fatalf("LoadExponent: %v", err)
	}
	if got.Cmp(want) != 0 {
		t.Fatalf("LoadExponent = %s, want %s", got, want)
	}
}

func TestExponentAbsentReturnsZero(t *testing.T) {
	store, _ := newTestStore(t, 127, 2, "pm1")
	got, err := store.LoadExponent()
	if err != nil {
		t.Fatalf("LoadExponent: %v", err)
	}
	if got.Sign() != 0 {
		t.Fatalf("LoadExponent on absent file = %s, want 0", got)
	}
}

func TestStage2RoundTrip(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	os.Chdir(dir)
	t.Cleanup(func() { os.Chdir(wd) })

	sched, err := NewSchedule(127, 2)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	store, err := NewStore(sched, dir, "pm1", 1000, 2000)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	hq := []uint64{10, 20, 30}
	q := []uint64{1, 2, 3}
	if err := store.SaveStatePM1S2(hq, q, 42); err != nil {
		t.Fatalf("SaveStatePM1S2: %v", err)
	}

	gotHQ, gotQ, resume, err := store.LoadStatePM1S2(3)
	if err != nil {
		t.Fatalf("LoadStatePM1S2: %v", err)
	}
	if resume != 43 {
		t.Fatalf("resume = %d, want 43", resume)
	}
	for i := range hq {
		if gotHQ[i] != hq[i] || gotQ[i] != q[i] {
			t.Fatalf("word %d mismatch: hq %d/%d q %d/%d", i, gotHQ[i], hq[i], gotQ[i], q[i])
		}
	}
}

func mustBig(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal")
	}
	return x
}
