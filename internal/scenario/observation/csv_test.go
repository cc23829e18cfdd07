package observation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
)

func dt(s string) clock.DateTime {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return clock.NewDateTime(t)
}

func writeDataCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	lines := "PersonID,EventID,SpaceID,StartDateTime,EndDateTime\n"
	for _, r := range rows {
		lines += r[0] + "," + r[1] + "," + r[2] + "," + r[3] + "," + r[4] + "\n"
	}
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("writing %q: %v", path, err)
	}
	return path
}

func TestReadAttendance(t *testing.T) {
	path := writeDataCSV(t, [][]string{
		{"1", "-1", "0", "2024-01-01 09:00:00", "2024-01-01 09:05:00"},
		{"1", "5", "1", "2024-01-01 09:05:00", "2024-01-01 10:00:00"},
	})
	rows, err := ReadAttendance(path)
	if err != nil {
		t.Fatalf("ReadAttendance: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].PersonID != 1 || rows[0].EventID != -1 || rows[0].SpaceID != 0 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if !rows[1].Start.Equal(dt("2024-01-01 09:05:00").Time) {
		t.Errorf("row 1 start = %v", rows[1].Start)
	}
}

func TestReadAttendanceEmpty(t *testing.T) {
	path := writeDataCSV(t, nil)
	rows, err := ReadAttendance(path)
	if err != nil {
		t.Fatalf("ReadAttendance: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestByPersonPreservesOrder(t *testing.T) {
	rows := []Attendance{
		{PersonID: 1, SpaceID: 0, Start: dt("2024-01-01 09:00:00"), End: dt("2024-01-01 09:05:00")},
		{PersonID: 2, SpaceID: 0, Start: dt("2024-01-01 09:00:00"), End: dt("2024-01-01 09:05:00")},
		{PersonID: 1, SpaceID: 1, Start: dt("2024-01-01 09:05:00"), End: dt("2024-01-01 10:00:00")},
	}
	byPerson := ByPerson(rows)
	if len(byPerson[1]) != 2 {
		t.Fatalf("person 1 has %d rows, want 2", len(byPerson[1]))
	}
	if byPerson[1][0].SpaceID != 0 || byPerson[1][1].SpaceID != 1 {
		t.Errorf("person 1 rows out of order: %+v", byPerson[1])
	}
	if len(byPerson[2]) != 1 {
		t.Fatalf("person 2 has %d rows, want 1", len(byPerson[2]))
	}
}

func TestBuildCoveringSensors(t *testing.T) {
	sensors := []*model.Sensor{
		{ID: 1, Coverage: []model.SpaceID{0, 1}},
		{ID: 2, Mobile: true, Follows: 7},
	}
	cov := BuildCoveringSensors(sensors)
	if len(cov.BySpace[0]) != 1 || cov.BySpace[0][0].ID != 1 {
		t.Errorf("space 0 coverage = %+v", cov.BySpace[0])
	}
	if len(cov.BySpace[1]) != 1 || cov.BySpace[1][0].ID != 1 {
		t.Errorf("space 1 coverage = %+v", cov.BySpace[1])
	}
	if len(cov.ByPerson[7]) != 1 || cov.ByPerson[7][0].ID != 2 {
		t.Errorf("person 7 coverage = %+v", cov.ByPerson[7])
	}
}

func TestCoveringSensorsForUnion(t *testing.T) {
	sensors := []*model.Sensor{
		{ID: 1, Coverage: []model.SpaceID{0}},
		{ID: 2, Mobile: true, Follows: 7},
	}
	cov := BuildCoveringSensors(sensors)
	got := coveringSensorsFor(cov, 7, 0)
	if len(got) != 2 {
		t.Fatalf("got %d covering sensors, want 2 (static + mobile): %+v", len(got), got)
	}
}

func TestCollapseByEventDay(t *testing.T) {
	rows := []Attendance{
		{PersonID: 1, EventID: 5, SpaceID: 0, Start: dt("2024-01-01 09:00:00"), End: dt("2024-01-01 09:10:00")},
		{PersonID: 1, EventID: 5, SpaceID: 1, Start: dt("2024-01-01 09:10:00"), End: dt("2024-01-01 10:00:00")},
		{PersonID: 1, EventID: 5, SpaceID: 0, Start: dt("2024-01-02 09:00:00"), End: dt("2024-01-02 09:30:00")},
	}
	collapsed := CollapseByEventDay(rows)
	if len(collapsed) != 2 {
		t.Fatalf("got %d buckets, want 2 (one per day)", len(collapsed))
	}
	first := collapsed[0]
	if !first.Start.Equal(dt("2024-01-01 09:00:00").Time) || !first.End.Equal(dt("2024-01-01 10:00:00").Time) {
		t.Errorf("day 1 bucket = %+v, want span 09:00-10:00", first)
	}
}

func TestPeopleCoveredAt(t *testing.T) {
	bySpace := map[model.SpaceID][]Attendance{
		0: {
			{Start: dt("2024-01-01 09:00:00"), End: dt("2024-01-01 10:00:00")},
			{Start: dt("2024-01-01 09:30:00"), End: dt("2024-01-01 11:00:00")},
		},
	}
	if n := PeopleCoveredAt(bySpace, 0, dt("2024-01-01 09:45:00")); n != 2 {
		t.Errorf("PeopleCoveredAt = %d, want 2", n)
	}
	if n := PeopleCoveredAt(bySpace, 0, dt("2024-01-01 08:00:00")); n != 0 {
		t.Errorf("PeopleCoveredAt = %d, want 0", n)
	}
}
