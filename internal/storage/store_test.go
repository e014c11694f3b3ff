package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testMeta(id string, ts time.Time) RunMetadata {
	return RunMetadata{
		ID:              id,
		FMU:             "dq.fmu",
		ModelIdentifier: "dq",
		GUID:            "{guid}",
		Timestamp:       ts,
		StopTime:        1.0,
		StepSize:        0.25,
		Separator:       ";",
		Steps:           4,
	}
}

func TestSaveLoadMetadata(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	meta := testMeta("dq_1", time.Now().UTC())
	if err := st.SaveMetadata(meta); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.Load("dq_1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != meta {
		t.Errorf("mismatch: %+v vs %+v", loaded, meta)
	}
}

func TestListSortedByTimestamp(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"b_2", "a_1", "c_3"} {
		meta := testMeta(id, base.Add(time.Duration(2-i)*time.Hour))
		if err := st.SaveMetadata(meta); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].Timestamp.Before(runs[i-1].Timestamp) {
			t.Error("runs not sorted by timestamp")
		}
	}
}

func TestListEmptyDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != nil {
		t.Errorf("expected no runs, got %v", runs)
	}
}

func TestResultRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	f, err := st.CreateResult("dq_1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("time;h;v\n0;1;0\n0.25;0.96;-2.4\n"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	names, times, series, err := st.LoadResult("dq_1", ';')
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if len(names) != 2 || names[0] != "h" || names[1] != "v" {
		t.Errorf("names: %v", names)
	}
	if len(times) != 2 || times[1] != 0.25 {
		t.Errorf("times: %v", times)
	}
	if series[0][0] != 1 || series[1][1] != -2.4 {
		t.Errorf("series: %v", series)
	}
}

func TestLoadResultMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, _, _, err := st.LoadResult("nope", ';'); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
