package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Business timezone for due-date classification; all "today"
	// arithmetic happens in this zone regardless of server locale.
	Timezone string
	// Hour of day (business time) the daily pass fires.
	ScheduleHour int
	// Run one pass immediately at startup (dev convenience).
	RunPassOnStart bool

	AWSRegion   string
	EmailSender string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "trackyourloan"),
		MySQLUser: getenv("MYSQL_USER", "trackyourloan"),
		MySQLPass: getenv("MYSQL_PASS", "trackyourloan"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		Timezone:       getenv("BUSINESS_TIMEZONE", "Asia/Kolkata"),
		ScheduleHour:   getenvInt("SCHEDULE_HOUR", 9),
		RunPassOnStart: getenv("RUN_PASS_ON_START", "") == "true",

		AWSRegion:   getenv("AWS_REGION", "ap-south-1"),
		EmailSender: getenv("EMAIL_SENDER", "no-reply@trackyourloan.app"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.ScheduleHour < 0 || c.ScheduleHour > 23 {
		return fmt.Errorf("SCHEDULE_HOUR out of range: %d", c.ScheduleHour)
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) { return time.LoadLocation(c.Timezone) }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime is required to scan DATE/DATETIME into time.Time
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
