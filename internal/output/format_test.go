package output

import (
	"bytes"
	"testing"
	"time"

	"mywork/internal/service"
	"mywork/internal/testutil"
)

func sampleResultSet() *service.ResultSet {
	a := service.Story{WorkItem: service.WorkItem{ID: "a", Title: "Ship release"}}
	b := service.Story{WorkItem: service.WorkItem{ID: "b", Title: "  "}}
	c := service.Story{WorkItem: service.WorkItem{ID: "c", Title: "Plan\ntrip"}}

	rs := service.NewResultSet()
	rs.Add(a, service.Task{WorkItem: service.WorkItem{ID: "t1", Title: "Tag build"}, Parent: a})
	rs.Add(a, service.Task{WorkItem: service.WorkItem{ID: "t2", Title: "Write notes", State: service.StateClosed}, Parent: a})
	rs.Ensure(b)
	rs.Add(c, service.Task{WorkItem: service.WorkItem{ID: "t3", Title: ""}, Parent: c})
	return rs
}

func TestFormatResultSet(t *testing.T) {
	var buf bytes.Buffer
	if !FormatResultSet(&buf, sampleResultSet()) {
		t.Fatal("expected FormatResultSet to report output")
	}
	testutil.GoldenString(t, "resultset", buf.String())
}

func TestFormatResultSet_Empty(t *testing.T) {
	var buf bytes.Buffer
	if FormatResultSet(&buf, service.NewResultSet()) {
		t.Error("expected false for empty result set")
	}
	if FormatResultSet(&buf, nil) {
		t.Error("expected false for nil result set")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestFormatSnapshotHeader(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC)
	FormatSnapshotHeader(&buf, at, sampleResultSet())

	expected := "------------\n09:05:07  3 stories, 3 tasks\n------------\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
