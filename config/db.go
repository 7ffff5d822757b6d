package config

import (
	"encoding/json"
	"fmt"
	stdlog "log"
	"net/url"
	"os"
	"strings"
	"time"

	"reserva-backend/models"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "reserva_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// openDialector picks MySQL when one is configured, SQLite otherwise so a
// bare checkout runs without a database server.
func openDialector() (gorm.Dialector, error) {
	driver := strings.ToLower(envOrDefault("DB_DRIVER", ""))
	if driver == "" {
		if os.Getenv("MYSQL_URL") != "" || os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != "" {
			driver = "mysql"
		} else {
			driver = "sqlite"
		}
	}

	switch driver {
	case "mysql":
		dsn, err := resolveMySQLDSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(envOrDefault("SQLITE_PATH", "reserva.db")), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

// SeedDatabase ensures the global Settings row exists. Defaults: closed
// Mondays, lunch 12:00-15:00, dinner 19:00-23:00, 90 minute table time,
// 50 lunch / 60 dinner covers.
func SeedDatabase() {
	var count int64
	DB.Model(&models.Settings{}).Where("settings_id = ?", "global").Count(&count)
	if count > 0 {
		return
	}

	openDays, _ := json.Marshal([]int{1, 2, 3, 4, 5, 6})
	settings := models.Settings{
		SettingsID:        "global",
		OpenDays:          openDays,
		LunchStart:        "12:00",
		LunchEnd:          "15:00",
		DinnerStart:       "19:00",
		DinnerEnd:         "23:00",
		AvgTableTime:      90,
		MaxCapacityLunch:  50,
		MaxCapacityDinner: 60,
	}
	if err := DB.Create(&settings).Error; err != nil {
		log.WithError(err).Warn("failed to seed default settings")
		return
	}
	log.Info("default settings seeded")
}

func ConnectDatabase() error {
	dialector, err := openDialector()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Settings{},
		&models.Room{},
		&models.Table{},
		&models.Reservation{},
		&models.Equipment{},
		&models.Space{},
		&models.HACCPRecord{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
