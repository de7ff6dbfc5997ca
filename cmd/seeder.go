package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-portal/internal/core/datamodel"
	newsDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/news"
	userDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/user"
	worklogDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/worklog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "Passw0rd!"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo users, a week of worklogs and a few news items.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := setupLogger(cfg)

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := datamodel.AutoMigrate(db); err != nil {
			return err
		}
		return seedData(db, cfg.Security.BCryptCost, clearData, time.Now(), lg)
	},
}

type seedUser struct {
	FullName      string
	Position      string
	Department    string
	Email         string
	WorkStartDate string
	Phone         string
	IsAdmin       bool
}

var seedUsers = []seedUser{
	{"Иван Иванов", "Frontend Developer", "Разработка", "ivan.ivanov@example.com", "2021-03-15", "+7 999 123-45-67", true},
	{"Пётр Петров", "Backend Developer", "Разработка", "petr.petrov@example.com", "2022-09-01", "", false},
	{"Анна Смирнова", "HR Manager", "Персонал", "anna.smirnova@example.com", "2019-11-20", "+7 999 765-43-21", false},
}

var seedNews = []struct {
	Title   string
	Content string
	DaysAgo int
}{
	{"Добро пожаловать на портал", "Здесь публикуются новости компании и учитывается рабочее время.", 14},
	{"Новый офис", "С понедельника команда разработки работает на новом этаже.", 6},
	{"Корпоратив", "В пятницу в 18:00 ждём всех в переговорной.", 1},
}

// seedData inserts whatever is missing; with clear it first wipes news,
// worklogs and users.
func seedData(db *gorm.DB, bcryptCost int, clear bool, now time.Time, lg *slog.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []any{&newsDatamodel.NewsItem{}, &worklogDatamodel.Worklog{}, &userDatamodel.User{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear data: %w", err)
				}
			}
			lg.Info("existing data cleared")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		var ids []int64
		for _, su := range seedUsers {
			id, created, err := ensureUser(tx, su, string(hash))
			if err != nil {
				return err
			}
			if created {
				lg.Info("seeded user", "email", su.Email)
			}
			ids = append(ids, id)
		}

		if err := seedWeek(tx, ids, now); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&newsDatamodel.NewsItem{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, n := range seedNews {
				item := newsDatamodel.NewsItem{
					Title:     n.Title,
					Content:   n.Content,
					Author:    seedUsers[0].FullName,
					CreatedAt: now.AddDate(0, 0, -n.DaysAgo),
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("failed to insert news %q: %w", n.Title, err)
				}
			}
			lg.Info("seeded news", "count", len(seedNews))
		}

		return nil
	})
}

func ensureUser(tx *gorm.DB, su seedUser, hash string) (int64, bool, error) {
	var existing userDatamodel.User
	err := tx.Where("email = ?", su.Email).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("failed to look up %s: %w", su.Email, err)
	}

	u := userDatamodel.User{
		FullName:      su.FullName,
		Position:      su.Position,
		Department:    su.Department,
		Email:         su.Email,
		PasswordHash:  hash,
		WorkStartDate: su.WorkStartDate,
		IsAdmin:       su.IsAdmin,
	}
	if su.Phone != "" {
		phone := su.Phone
		u.Phone = &phone
	}
	if err := tx.Create(&u).Error; err != nil {
		return 0, false, fmt.Errorf("failed to insert %s: %w", su.Email, err)
	}
	return u.ID, true, nil
}

// seedWeek gives each user closed shifts from Monday up to yesterday of the
// current week, plus a day off on Wednesday for the last user.
func seedWeek(tx *gorm.DB, userIDs []int64, now time.Time) error {
	var count int64
	if err := tx.Model(&worklogDatamodel.Worklog{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))

	for i, id := range userIDs {
		for d := monday; d.Before(day); d = d.AddDate(0, 0, 1) {
			w := worklogDatamodel.Worklog{UserID: id, WorkDate: d.Format("2006-01-02")}
			if i == len(userIDs)-1 && d.Weekday() == time.Wednesday {
				w.IsDayOff = true
			} else {
				start, end, lunch := "09:00", "18:00", 60
				desc := "Рабочий день"
				w.StartTime, w.EndTime, w.BreakMinutes, w.Description = &start, &end, &lunch, &desc
			}
			if err := tx.Create(&w).Error; err != nil {
				return fmt.Errorf("failed to insert worklog: %w", err)
			}
		}
	}
	return nil
}
