package config

import (
	"fmt"

	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/felixgeelhaar/pkgreconcile/internal/validation"
)

// Validate checks cfg and returns an *ErrorList describing every problem,
// or nil.
func Validate(cfg *Config) error {
	errs := NewErrorList()

	switch cfg.Manager.Backend {
	case "", "yum", "dnf":
	default:
		errs.AddValidation("manager.backend",
			fmt.Sprintf("unsupported backend %q", cfg.Manager.Backend),
			"Use yum or dnf.")
	}

	if cfg.LogLevel != "" {
		if _, err := ports.ParseLevel(cfg.LogLevel); err != nil {
			errs.AddValidation("log_level", err.Error(), "Use debug, info, warn or error.")
		}
	}

	if cfg.StateFile != "" {
		if err := validation.ValidatePath(cfg.StateFile); err != nil {
			errs.AddValidation("state_file", err.Error(), "Use a plain absolute path.")
		}
	}

	if len(cfg.Repositories) == 0 {
		errs.AddValidation("repositories", "at least one repository is required",
			"Add a repositories entry listing the packages to manage.")
	}

	validateRepositories(cfg.Repositories, errs)

	return errs.AsError()
}

func validateRepositories(repos []Repository, errs *ErrorList) {
	repoNames := make(map[string]bool)
	// First constraint seen per package name.
	wanted := make(map[string]string)

	for i, repo := range repos {
		field := fmt.Sprintf("repositories[%d]", i)

		if err := validation.ValidateRepoName(repo.Name); err != nil {
			errs.AddValidation(field+".name", err.Error(),
				"Repository names may contain letters, digits, '.', '_', ':' and '-'.")
		} else if repoNames[repo.Name] {
			errs.Add(NewDuplicateRepositoryError(repo.Name))
		}
		repoNames[repo.Name] = true

		for j, p := range repo.Packages {
			pkgField := fmt.Sprintf("%s.packages[%d]", field, j)

			if err := validation.ValidatePackageName(p.Name); err != nil {
				errs.AddValidation(pkgField+".name", err.Error(),
					"Use the package name exactly as rpm reports it.")
				continue
			}

			constraint := p.Constraint()
			if v, ok := constraint.Version(); ok {
				if err := validation.ValidateVersion(v); err != nil {
					errs.AddValidation(pkgField+".version", err.Error(),
						"Use a version such as 0.1.12, or 'present' for any version.")
					continue
				}
			}

			if first, ok := wanted[p.Name]; ok {
				if first != constraint.String() {
					errs.Add(NewDuplicatePackageError(p.Name, first, constraint.String()))
				}
				continue
			}
			wanted[p.Name] = constraint.String()
		}
	}
}
