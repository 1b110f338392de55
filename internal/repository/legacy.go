package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pushup-tracker/internal/model"
)

// Legacy flat-file snapshot written by the pre-SQLite version of the tracker.
type legacySnapshot struct {
	Users   map[string]legacyUser `json:"users"`
	Entries []legacyEntry         `json:"entries"`
}

type legacyUser struct {
	WeightLbs *float64 `json:"weightLbs"`
	CreatedAt int64    `json:"createdAt"`
}

type legacyEntry struct {
	User      string  `json:"user"`
	Count     float64 `json:"count"`
	Timestamp int64   `json:"timestamp"`
}

// ImportLegacyJSON performs the one-time migration of a legacy db.json file
// into the relational store. It only runs when both the users and entries
// tables are empty, and applies the whole import in a single transaction, so
// a partially imported state can never be observed. A missing or unreadable
// legacy file is not an error.
func ImportLegacyJSON(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		log.Printf("legacy import: read %s: %v", path, err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var userCount, entryCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&model.Entry{}).Count(&entryCount).Error; err != nil {
		return fmt.Errorf("count entries: %w", err)
	}
	if userCount > 0 || entryCount > 0 {
		return nil
	}

	var snapshot legacySnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		log.Printf("legacy import: unable to parse %s: %v", path, err)
		return nil
	}

	nowMs := time.Now().UnixMilli()
	err = db.Transaction(func(tx *gorm.DB) error {
		for name, legacy := range snapshot.Users {
			username := model.NormalizeUsername(name)
			if username == "" {
				continue
			}
			createdAt := legacy.CreatedAt
			if createdAt <= 0 {
				createdAt = nowMs
			}
			user := model.User{Username: username, CreatedAt: createdAt}
			if w := roundWeight(legacy.WeightLbs); w != nil {
				user.WeightLbs = w
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
				return fmt.Errorf("import user %q: %w", username, err)
			}
		}

		for _, legacy := range snapshot.Entries {
			username := model.NormalizeUsername(legacy.User)
			if username == "" {
				continue
			}
			count := int(math.Floor(legacy.Count))
			if !isFinite(legacy.Count) || count <= 0 {
				continue
			}
			timestamp := legacy.Timestamp
			if timestamp <= 0 {
				timestamp = nowMs
			}
			user := model.User{Username: username, CreatedAt: timestamp}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
				return fmt.Errorf("import entry user %q: %w", username, err)
			}
			entry := model.Entry{Username: username, Count: count, Timestamp: timestamp}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("import entry for %q: %w", username, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Migrated legacy JSON data from %s into SQLite.", path)
	return nil
}

func roundWeight(weight *float64) *int {
	if weight == nil || !isFinite(*weight) || *weight <= 0 {
		return nil
	}
	w := int(math.Round(*weight))
	return &w
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
