package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/types"
	"github.com/okian/jobmatch/pkg/logger"
)

// SeedFile is the layout of a seed YAML file.
type SeedFile struct {
	Employers []SeedEmployer `koanf:"employers"`
}

// SeedEmployer is an employer account and its postings.
type SeedEmployer struct {
	Name     string    `koanf:"name"`
	Email    string    `koanf:"email"`
	Password string    `koanf:"password"`
	Company  string    `koanf:"company"`
	Jobs     []SeedJob `koanf:"jobs"`
}

// SeedJob is a posting in a seed file.
type SeedJob struct {
	Title        string   `koanf:"title"`
	Company      string   `koanf:"company"`
	Location     string   `koanf:"location"`
	Description  string   `koanf:"description"`
	Requirements string   `koanf:"requirements"`
	Skills       []string `koanf:"skills"`
}

// LoadSeedFile parses a seed file.
func LoadSeedFile(path string) (SeedFile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return SeedFile{}, fmt.Errorf("load seed %s: %w", path, err)
	}
	var sf SeedFile
	if err := k.UnmarshalWithConf("", &sf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return SeedFile{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return sf, nil
}

// Seed creates the employers of sf and posts their jobs. Employers whose
// email is already registered are skipped with their jobs, so seeding a
// persistent store twice is harmless. It returns the number of jobs posted.
func (s *Service) Seed(ctx context.Context, sf SeedFile) (int, error) {
	posted := 0
	for _, e := range sf.Employers {
		acct, err := s.Register(ctx, types.RegisterInput{
			Name: e.Name, Email: e.Email, Password: e.Password, Role: model.RoleEmployer,
		})
		if errors.Is(err, model.ErrConflict) {
			s.logger.Debug(ctx, "seed employer exists", logger.String("email", e.Email))
			continue
		}
		if err != nil {
			return posted, fmt.Errorf("seed employer %s: %w", e.Email, err)
		}
		for _, j := range e.Jobs {
			company := j.Company
			if company == "" {
				company = e.Company
			}
			if _, err := s.postJob(ctx, acct.User.ID, types.JobInput{
				Title:        j.Title,
				Company:      company,
				Location:     j.Location,
				Description:  j.Description,
				Requirements: j.Requirements,
				Skills:       j.Skills,
			}); err != nil {
				return posted, fmt.Errorf("seed job %q: %w", j.Title, err)
			}
			posted++
		}
	}
	s.logger.Info(ctx, "seed loaded", logger.Int("jobs", posted))
	return posted, nil
}
