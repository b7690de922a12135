package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/jobmatch/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it has runnable defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
			convey.So(cfg.BlobDriver, convey.ShouldEqual, "disk")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 5<<20)
			convey.So(cfg.TokenTTL(), convey.ShouldEqual, 24*time.Hour)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.UsesDevSecret(), convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(c *config.Config){
			"addr must not be empty":        func(c *config.Config) { c.Addr = "" },
			"unknown store_driver":          func(c *config.Config) { c.StoreDriver = "mongo" },
			"store_dsn is required":         func(c *config.Config) { c.StoreDriver = "sqlite" },
			"unknown blob_driver":           func(c *config.Config) { c.BlobDriver = "ftp" },
			"s3_bucket is required":         func(c *config.Config) { c.BlobDriver = "s3" },
			"jwt_secret must be at least":   func(c *config.Config) { c.JWTSecret = "short" },
			"bcrypt_cost must be between":   func(c *config.Config) { c.BcryptCost = 4 },
			"max_upload_bytes must be":      func(c *config.Config) { c.MaxUploadBytes = 0 },
			"queue_size must be positive":   func(c *config.Config) { c.QueueSize = 0 },
			"jwt_expiration_hours must be":  func(c *config.Config) { c.JWTExpirationHours = 0 },
			"login_rate_per_min and":        func(c *config.Config) { c.LoginBurst = 0 },
			"upload_dir is required for di": func(c *config.Config) { c.UploadDir = "" },
		}
		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}
	})
}
