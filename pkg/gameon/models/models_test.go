package models

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, subject string) User {
	user := User{Subject: subject, Email: subject + "@example.com", Name: "Test User"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	tables := []string{"users", "platforms", "tags", "games", "tag_game_relations", "game_date_relations"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestUserSubjectUnique(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|abc")

	dup := User{Subject: "auth0|abc"}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating user with duplicate subject")
	}
}

func TestTagTitleUniquePerOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if err := db.Create(&Tag{OwnerID: alice.ID, Title: "RPG"}).Error; err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}

	// Same title for a different owner is fine
	if err := db.Create(&Tag{OwnerID: bob.ID, Title: "RPG"}).Error; err != nil {
		t.Errorf("Expected tag title to be reusable across owners, got %v", err)
	}

	err := db.Create(&Tag{OwnerID: alice.ID, Title: "RPG"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected ErrDuplicatedKey for duplicate title, got %v", err)
	}
}

func TestGameWithPlatformAndBooleans(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")

	platform := Platform{OwnerID: user.ID, Title: "Switch"}
	db.Create(&platform)

	game := Game{OwnerID: user.ID, Title: "Celeste", PlatformID: &platform.ID, Finished: true}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	var loaded Game
	if err := db.Preload("Platform").First(&loaded, game.ID).Error; err != nil {
		t.Fatalf("Failed to load game: %v", err)
	}
	if loaded.Platform == nil || loaded.Platform.Title != "Switch" {
		t.Errorf("Expected platform Switch, got %+v", loaded.Platform)
	}
	if !loaded.Finished || loaded.Archived {
		t.Errorf("Expected finished=true archived=false, got %v/%v", loaded.Finished, loaded.Archived)
	}
	if loaded.CreatedAt.IsZero() || loaded.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set on insert")
	}
}

func TestTagGameRelationUnique(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := Game{OwnerID: user.ID, Title: "Celeste"}
	db.Create(&game)
	tag := Tag{OwnerID: user.ID, Title: "Platformer"}
	db.Create(&tag)

	if err := db.Create(&TagGameRelation{OwnerID: user.ID, TagID: tag.ID, GameID: game.ID}).Error; err != nil {
		t.Fatalf("Failed to create relation: %v", err)
	}
	err := db.Create(&TagGameRelation{OwnerID: user.ID, TagID: tag.ID, GameID: game.ID}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected ErrDuplicatedKey for duplicate relation, got %v", err)
	}

	var loaded Game
	db.Preload("Tags.Tag").First(&loaded, game.ID)
	if len(loaded.Tags) != 1 || loaded.Tags[0].Tag.Title != "Platformer" {
		t.Errorf("Expected one Platformer tag, got %+v", loaded.Tags)
	}
}

func TestGameDatesOrderedDescending(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	game := Game{OwnerID: user.ID, Title: "Celeste"}
	db.Create(&game)

	for _, d := range []string{"2024-01-01", "2024-03-15", "2023-12-31"} {
		if err := db.Create(&GameDateRelation{OwnerID: user.ID, GameID: game.ID, Date: d}).Error; err != nil {
			t.Fatalf("Failed to create date %s: %v", d, err)
		}
	}

	var dates []GameDateRelation
	db.Where("game_id = ?", game.ID).Order(DefaultDateOrder).Find(&dates)
	if len(dates) != 3 {
		t.Fatalf("Expected 3 dates, got %d", len(dates))
	}
	if dates[0].Date != "2024-03-15" || dates[2].Date != "2023-12-31" {
		t.Errorf("Expected descending order, got %s..%s", dates[0].Date, dates[2].Date)
	}

	err := db.Create(&GameDateRelation{OwnerID: user.ID, GameID: game.ID, Date: "2024-01-01"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected ErrDuplicatedKey for duplicate date, got %v", err)
	}
}
