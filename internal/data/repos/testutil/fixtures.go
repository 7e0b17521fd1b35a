package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
)

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.PermissionsGroup {
	tb.Helper()
	var existing types.PermissionsGroup
	if err := tx.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&existing).Error; err != nil {
		tb.Fatalf("lookup group: %v", err)
	}
	if existing.ID != uuid.Nil {
		return &existing
	}
	g := &types.PermissionsGroup{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.User {
	tb.Helper()
	g := SeedGroup(tb, ctx, tx, types.GroupUser)
	u := &types.User{ID: uuid.New(), Name: name, PermissionsGroupID: g.ID}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAdmin(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.User {
	tb.Helper()
	g := SeedGroup(tb, ctx, tx, types.GroupAdmin)
	u := &types.User{ID: uuid.New(), Name: name, PermissionsGroupID: g.ID}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed admin: %v", err)
	}
	return u
}

// Catalog holds one row of every reference kind.
type Catalog struct {
	Platform          *types.LearningPlatform
	LearningActivity  *types.LearningActivity
	LearningType      *types.LearningType
	TaskStatus        *types.TaskStatus
	Location          *types.Location
	GraduateAttribute *types.GraduateAttribute
	Area              *types.Area
	School            *types.School
}

func SeedCatalog(tb testing.TB, ctx context.Context, tx *gorm.DB) Catalog {
	tb.Helper()
	c := Catalog{
		Platform:          &types.LearningPlatform{ID: uuid.New(), Name: "Canvas"},
		LearningType:      &types.LearningType{ID: uuid.New(), Name: "Acquisition"},
		TaskStatus:        &types.TaskStatus{ID: uuid.New(), Name: "To do"},
		Location:          &types.Location{ID: uuid.New(), Name: "Online"},
		GraduateAttribute: &types.GraduateAttribute{ID: uuid.New(), Name: "Digitally fluent"},
		Area:              &types.Area{ID: uuid.New(), Name: "Science"},
	}
	c.LearningActivity = &types.LearningActivity{ID: uuid.New(), Name: "Quiz", LearningPlatformID: c.Platform.ID}
	c.School = &types.School{ID: uuid.New(), Name: "Physics", AreaID: PtrUUID(c.Area.ID)}
	for _, row := range []interface{}{
		c.Platform, c.LearningActivity, c.LearningType, c.TaskStatus,
		c.Location, c.GraduateAttribute, c.Area, c.School,
	} {
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed catalog: %v", err)
		}
	}
	return c
}

func SeedGraduateAttribute(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.GraduateAttribute {
	tb.Helper()
	ga := &types.GraduateAttribute{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(ga).Error; err != nil {
		tb.Fatalf("seed graduate attribute: %v", err)
	}
	return ga
}

func Date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// SeedWorkbook inserts a workbook with weeks 1..weeks and numberOfWeeks set.
func SeedWorkbook(tb testing.TB, ctx context.Context, tx *gorm.DB, leadID uuid.UUID, c Catalog, weeks int) *types.Workbook {
	tb.Helper()
	wb := &types.Workbook{
		ID:                 uuid.New(),
		StartDate:          Date(2024, time.September, 2),
		EndDate:            Date(2024, time.December, 13),
		CourseName:         "Mechanics",
		CourseLeadID:       leadID,
		LearningPlatformID: c.Platform.ID,
		AreaID:             PtrUUID(c.Area.ID),
		SchoolID:           PtrUUID(c.School.ID),
		NumberOfWeeks:      weeks,
	}
	if err := tx.WithContext(ctx).Create(wb).Error; err != nil {
		tb.Fatalf("seed workbook: %v", err)
	}
	for n := 1; n <= weeks; n++ {
		if err := tx.WithContext(ctx).Create(&types.Week{WorkbookID: wb.ID, Number: n}).Error; err != nil {
			tb.Fatalf("seed week %d: %v", n, err)
		}
	}
	return wb
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, workbookID uuid.UUID, week, number int, name string, c Catalog) *types.Activity {
	tb.Helper()
	a := &types.Activity{
		ID:                  uuid.New(),
		WorkbookID:          workbookID,
		WeekNumber:          week,
		Number:              number,
		Name:                name,
		TimeEstimateMinutes: 30,
		LocationID:          c.Location.ID,
		LearningActivityID:  c.LearningActivity.ID,
		LearningTypeID:      c.LearningType.ID,
		TaskStatusID:        c.TaskStatus.ID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedContributor(tb testing.TB, ctx context.Context, tx *gorm.DB, workbookID, userID uuid.UUID) {
	tb.Helper()
	row := &types.WorkbookContributor{WorkbookID: workbookID, ContributorID: userID}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed contributor: %v", err)
	}
}

func SeedStaff(tb testing.TB, ctx context.Context, tx *gorm.DB, activityID, userID uuid.UUID) {
	tb.Helper()
	row := &types.ActivityStaff{ActivityID: activityID, StaffID: userID}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed staff: %v", err)
	}
}

func SeedWeekGraduateAttribute(tb testing.TB, ctx context.Context, tx *gorm.DB, workbookID uuid.UUID, week int, gaID uuid.UUID) {
	tb.Helper()
	row := &types.WeekGraduateAttribute{WeekWorkbookID: workbookID, WeekNumber: week, GraduateAttributeID: gaID}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed week graduate attribute: %v", err)
	}
}
