package process

import "testing"

func TestLoadParsesCommaSeparatedProgram(t *testing.T) {
	s, err := Load("1,0,0,0,99\n")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []int64{1, 0, 0, 0, 99}
	for i, v := range want {
		if got := s.Read(int64(i)); got != v {
			t.Errorf("Read(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestLoadRejectsNonIntegerToken(t *testing.T) {
	if _, err := Load("1,two,3"); err == nil {
		t.Fatal("Load with non-integer token: want error, got nil")
	}
}

func TestReadWriteSparseHighMemory(t *testing.T) {
	s, err := Load("0,0,0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Within the dense prefix.
	s.Write(1, 42)
	if got := s.Read(1); got != 42 {
		t.Errorf("Read(1) = %d, want 42", got)
	}

	// Well beyond it, landing in additionalMemory.
	s.Write(1000, 7)
	if got := s.Read(1000); got != 7 {
		t.Errorf("Read(1000) = %d, want 7", got)
	}

	// Untouched sparse index reads as zero.
	if got := s.Read(1001); got != 0 {
		t.Errorf("Read(1001) = %d, want 0", got)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	s, err := Load("1,2,3")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := s.Snapshot()

	s.Write(0, 99)
	if snap.Memory[0] != 1 {
		t.Errorf("Snapshot().Memory[0] changed after mutating State; got %d, want 1", snap.Memory[0])
	}
}
