package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/internal/domain/textextract"
	"github.com/okian/jobmatch/pkg/logger"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractCommand(t *testing.T) {
	convey.Convey("Given a plain text resume", t, func() {
		path := writeFile(t, "resume.txt", "Built REST services with Docker and PostgreSQL on AWS")
		want := []string{"REST", "SQL", "PostgreSQL", "AWS", "Docker"}

		convey.Convey("When extracting with the default vocabulary", func() {
			found, err := extractFile(config.New(), path)

			convey.Convey("Then the skills come back in vocabulary order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(found, convey.ShouldResemble, want)
			})
		})

		convey.Convey("When a custom vocabulary is configured", func() {
			cfg := config.New()
			cfg.SkillVocabulary = []string{"docker", "Kubernetes"}
			found, err := extractFile(cfg, path)

			convey.Convey("Then only its entries are reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(found, convey.ShouldResemble, []string{"docker"})
			})
		})

		convey.Convey("When running the extract command with --json", func() {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"--env-file", "", "extract", "--json", path})
			err := cmd.Execute()

			convey.Convey("Then it prints the file and its skills", func() {
				convey.So(err, convey.ShouldBeNil)
				var got struct {
					File   string   `json:"file"`
					Skills []string `json:"skills"`
				}
				convey.So(json.Unmarshal(out.Bytes(), &got), convey.ShouldBeNil)
				convey.So(got.File, convey.ShouldEqual, path)
				convey.So(got.Skills, convey.ShouldResemble, want)
			})
		})
	})

	convey.Convey("Given a file type without an extractor", t, func() {
		path := writeFile(t, "photo.png", "not a resume")

		convey.Convey("Then extraction is refused", func() {
			_, err := extractFile(config.New(), path)
			convey.So(errors.Is(err, textextract.ErrUnsupportedType), convey.ShouldBeTrue)
		})
	})
}

func TestLoadEnvFile(t *testing.T) {
	convey.Convey("Given dotenv files", t, func() {
		convey.Convey("When the file is missing", func() {
			err := loadEnvFile(filepath.Join(t.TempDir(), "absent.env"))

			convey.Convey("Then it is ignored", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file exists", func() {
			t.Setenv("JOBMATCH_DOTENV_PROBE", "")
			_ = os.Unsetenv("JOBMATCH_DOTENV_PROBE")
			path := writeFile(t, ".env", "JOBMATCH_DOTENV_PROBE=from-file\n")
			err := loadEnvFile(path)

			convey.Convey("Then its variables are exported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(os.Getenv("JOBMATCH_DOTENV_PROBE"), convey.ShouldEqual, "from-file")
			})
		})

		convey.Convey("When the path is empty", func() {
			convey.So(loadEnvFile(""), convey.ShouldBeNil)
		})
	})
}

func TestServiceWiring(t *testing.T) {
	convey.Convey("Given an in-memory configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StoreDriver = "memory"
		cfg.BlobDriver = "memory"
		cfg.BcryptCost = 10
		cfg.WorkerCount = 1
		l := logger.Get()

		svc, docs, err := buildService(ctx, cfg, l)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		convey.Reset(func() {
			_ = svc.Stop(ctx)
			_ = docs.Close()
		})

		mux := newMux(ctx, cfg, svc, l)

		convey.Convey("Then the docs, metrics and API routes are served", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats", "/api/skills", "/api/jobs"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then protected routes require a token", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", http.NoBody))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusUnauthorized)
		})
	})

	convey.Convey("Given an unknown store driver", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "cassandra"

		convey.Convey("Then building the service fails", func() {
			_, _, err := buildService(context.Background(), cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
