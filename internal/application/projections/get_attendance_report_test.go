package projections

import (
	"context"
	"testing"
	"time"

	"studio/internal/adapters/storage"
	"studio/internal/adapters/storage/docstore"
	lessonstore "studio/internal/adapters/storage/lesson"
	memberstore "studio/internal/adapters/storage/member"
	"studio/internal/domain/caldate"
	domainLesson "studio/internal/domain/lesson"
	domainMember "studio/internal/domain/member"
)

func sqliteReportDeps(t *testing.T) (GetAttendanceReportDeps, *lessonstore.SQLiteStore, *memberstore.SQLiteStore) {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatal(err)
	}
	docs := docstore.New(db)
	lessons := lessonstore.NewSQLiteStore(docs)
	members := memberstore.NewSQLiteStore(docs)
	return GetAttendanceReportDeps{MemberStore: members, LessonStore: lessons}, lessons, members
}

// TestQueryGetAttendanceReport_MonthBounds checks July 2024 excludes 06-30 and 08-01.
func TestQueryGetAttendanceReport_MonthBounds(t *testing.T) {
	deps, lessons, members := sqliteReportDeps(t)
	ctx := context.Background()

	for _, m := range []domainMember.Member{person("m1", "Zeynep", "Kaya"), person("m2", "Cem", "Arslan")} {
		m.CreatedAt = today
		if err := members.Save(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	seed := func(y int, mo time.Month, d int, slot domainLesson.Slot, ids ...string) {
		l, err := domainLesson.New(day(y, mo, d), slot, ids, today)
		if err != nil {
			t.Fatal(err)
		}
		if err := lessons.Save(ctx, l); err != nil {
			t.Fatal(err)
		}
	}
	seed(2024, 6, 30, domainLesson.Evening, "m1", "m2")
	seed(2024, 7, 1, domainLesson.Morning, "m1", "m2")
	seed(2024, 7, 1, domainLesson.Evening, "m1")
	seed(2024, 7, 31, domainLesson.Evening, "m1", "deleted-member")
	seed(2024, 8, 1, domainLesson.Morning, "m1", "m2")

	month, err := caldate.ParseMonth("2024-07")
	if err != nil {
		t.Fatal(err)
	}
	res, err := QueryGetAttendanceReport(ctx, GetAttendanceReportQuery{Range: month}, deps)
	if err != nil {
		t.Fatalf("QueryGetAttendanceReport() error = %v", err)
	}

	if res.Lessons != 3 {
		t.Errorf("lessons in range = %d, want 3", res.Lessons)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %+v, want 2", res.Rows)
	}
	if res.Rows[0].MemberID != "m2" || res.Rows[0].Count != 1 {
		t.Errorf("row 0 = %+v, want Cem with 1", res.Rows[0])
	}
	if res.Rows[1].MemberID != "m1" || res.Rows[1].Count != 3 {
		t.Errorf("row 1 = %+v, want Zeynep with 3", res.Rows[1])
	}
	if res.Total != 4 {
		t.Errorf("total = %d, want 4", res.Total)
	}

	drill, err := QueryGetMemberAttendance(ctx, GetMemberAttendanceQuery{MemberID: "m1", Range: month}, deps)
	if err != nil {
		t.Fatal(err)
	}
	if len(drill.Dates) != 3 || drill.Dates[0].Hour() != 10 || drill.Dates[2].Day() != 31 {
		t.Errorf("drill-down dates = %v", drill.Dates)
	}
}

// TestQueryGetAttendanceReport_InclusiveRange checks an explicit range includes its end day.
func TestQueryGetAttendanceReport_InclusiveRange(t *testing.T) {
	members := &mockMemberStore{members: []domainMember.Member{person("m1", "Zeynep", "Kaya")}}
	lessons := &mockLessonStore{}
	lessons.add(day(2024, 7, 10), domainLesson.Evening, "m1")
	lessons.add(day(2024, 7, 11), domainLesson.Morning, "m1")
	deps := GetAttendanceReportDeps{MemberStore: members, LessonStore: lessons}

	r, err := caldate.Inclusive(day(2024, 7, 1), day(2024, 7, 10))
	if err != nil {
		t.Fatal(err)
	}
	res, err := QueryGetAttendanceReport(context.Background(), GetAttendanceReportQuery{Range: r}, deps)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Count != 1 {
		t.Errorf("rows = %+v, want one lesson on the end day", res.Rows)
	}

	empty, _ := QueryGetAttendanceReport(context.Background(), GetAttendanceReportQuery{Range: caldate.Month(2023, 1)}, deps)
	if empty.Rows == nil || len(empty.Rows) != 0 {
		t.Errorf("empty month rows = %#v, want empty non-nil", empty.Rows)
	}
}
