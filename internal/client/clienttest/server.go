// Package clienttest runs the real REST service on in-memory SQLite for
// client tests.
package clienttest

import (
	"fmt"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-portal/internal/filestore"
	"github.com/frahmantamala/hr-portal/internal/transport/rest"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	AdminEmail    = "ivan.ivanov@example.com"
	AdminPassword = "Passw0rd!"
	UserEmail     = "petr.petrov@example.com"
	UserPassword  = "Passw0rd!"
)

type Server struct {
	*httptest.Server
	DB      *gorm.DB
	AdminID int64
	UserID  int64

	uploadDir string
}

type Options struct {
	// StrictLogin checks passwords instead of signing everyone in as the
	// admin user.
	StrictLogin bool
}

func Start(opts Options) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every pooled connection to :memory: would be a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := datamodel.AutoMigrate(db); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	phone := "+7 900 000-00-00"
	admin := userDatamodel.User{
		FullName:      "Иван Иванов",
		Position:      "Team Lead",
		Department:    "Engineering",
		Email:         AdminEmail,
		PasswordHash:  string(hash),
		WorkStartDate: "2020-03-01",
		Phone:         &phone,
		IsAdmin:       true,
	}
	member := userDatamodel.User{
		FullName:      "Пётр Петров",
		Position:      "Developer",
		Department:    "Engineering",
		Email:         UserEmail,
		PasswordHash:  string(hash),
		WorkStartDate: "2022-09-15",
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	if err := db.Create(&member).Error; err != nil {
		return nil, err
	}

	uploadDir, err := os.MkdirTemp("", "hr-portal-uploads")
	if err != nil {
		return nil, err
	}
	store, err := filestore.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		return nil, err
	}

	cfg := &internal.Config{
		Server:   internal.ServerConfig{AllowedOrigins: "*"},
		Database: internal.DatabaseConfig{Driver: "sqlite"},
		Security: internal.SecurityConfig{
			JWTSecret:           "clienttest-secret-clienttest-secret",
			AccessTokenDuration: time.Hour,
			DemoLogin:           !opts.StrictLogin,
			DemoUserEmail:       AdminEmail,
		},
		Storage: internal.StorageConfig{
			MaxFileSize:  1 << 20,
			AllowedTypes: []string{"image/png", "image/jpeg"},
		},
		API: internal.APIConfig{ValidateRequests: true},
	}

	router, err := rest.NewServer(rest.Dependencies{
		Config:  cfg,
		DB:      db,
		Avatars: store,
		Logger:  logger.Discard(),
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		Server:    httptest.NewServer(router),
		DB:        db,
		AdminID:   admin.ID,
		UserID:    member.ID,
		uploadDir: uploadDir,
	}, nil
}

func (s *Server) Close() {
	s.Server.Close()
	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}
	os.RemoveAll(s.uploadDir)
}
