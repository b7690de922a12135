package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/internal/domain/skills"
)

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, config.EnvPrefix) {
			_ = os.Unsetenv(key)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobmatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
		})

		convey.Convey("When env vars are set", func() {
			_ = os.Setenv("JOBMATCH_ADDR", ":9000")
			_ = os.Setenv("JOBMATCH_QUEUE_SIZE", "64")
			_ = os.Setenv("JOBMATCH_WORKER_COUNT", "3")
			_ = os.Setenv("JOBMATCH_S3_PATH_STYLE", "true")
			_ = os.Setenv("JOBMATCH_SKILL_VOCABULARY", "React,Node.js,AWS")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			convey.So(cfg.S3PathStyle, convey.ShouldBeTrue)
			convey.So(cfg.SkillVocabulary, convey.ShouldResemble, []string{"React", "Node.js", "AWS"})
		})

		convey.Convey("When the env vocabulary has spaces and empty items", func() {
			_ = os.Setenv("JOBMATCH_SKILL_VOCABULARY", " React , Node.js,,AWS ")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.SkillVocabulary, convey.ShouldResemble, []string{"React", "Node.js", "AWS"})

			vocab := skills.NewVocabulary(cfg.SkillVocabulary)
			convey.So(vocab.Extract("Looking for a React and Node.js developer"), convey.ShouldResemble, []string{"React", "Node.js"})
		})

		convey.Convey("When a non-list env value contains commas", func() {
			_ = os.Setenv("JOBMATCH_AMQP_EXCHANGE", "a,b")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.AMQPExchange, convey.ShouldEqual, "a,b")
		})

		convey.Convey("When a YAML file is given", func() {
			path := writeConfigFile(t, `
addr: ":9090"
store_driver: sqlite
store_dsn: data/jobmatch.db
worker_count: 8
skill_vocabulary:
  - Go
  - Kafka
`)
			_ = os.Setenv(config.EnvConfigFile, path)

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.StoreDSN, convey.ShouldEqual, "data/jobmatch.db")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
			convey.So(cfg.SkillVocabulary, convey.ShouldResemble, []string{"Go", "Kafka"})
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)

			convey.Convey("And env overrides the file", func() {
				_ = os.Setenv("JOBMATCH_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When the YAML is invalid", func() {
			_ = os.Setenv(config.EnvConfigFile, writeConfigFile(t, "invalid: yaml: content: ["))

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv(config.EnvConfigFile, "/non/existent/file.yaml")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When addr is emptied", func() {
			_ = os.Setenv("JOBMATCH_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}
