package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

func TestFindDirectoryUser_LoadsAssignedDepartments(t *testing.T) {
	db := newTestDB(t)
	seedDepartments(t, db, "Склад", "Бухгалтерия", "Архив")

	u := domain.DirectoryUser{
		FirstName:  "Пётр",
		LastName:   "Петров",
		Region:     "Уфа",
		TelegramID: "555",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var depts []domain.Department
	if err := db.Where("name IN ?", []string{"Склад", "Бухгалтерия"}).Find(&depts).Error; err != nil {
		t.Fatalf("find depts: %v", err)
	}
	for _, d := range depts {
		link := domain.DirectoryUserGroup{UserID: u.ID, GroupID: d.ID}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("seed link: %v", err)
		}
	}

	got, err := FindDirectoryUser(context.Background(), db, "555")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != u.ID || got.Region != "Уфа" {
		t.Fatalf("user: %+v", got)
	}
	if want := []string{"Бухгалтерия", "Склад"}; !reflect.DeepEqual(got.Departments, want) {
		t.Fatalf("departments: %v, want %v", got.Departments, want)
	}
}

func TestFindDirectoryUser_NotRegistered(t *testing.T) {
	db := newTestDB(t)
	if _, err := FindDirectoryUser(context.Background(), db, "999"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want record not found", err)
	}
}

func TestFindDirectoryUser_NoAssignments(t *testing.T) {
	db := newTestDB(t)

	u := domain.DirectoryUser{FirstName: "А", LastName: "Б", TelegramID: "1"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	got, err := FindDirectoryUser(context.Background(), db, "1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Departments) != 0 {
		t.Fatalf("departments: %v", got.Departments)
	}
}
